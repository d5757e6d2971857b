// Package login bridges stored users into the authentication model.
//
// LoadUserByUsername projects a user's role set into authority strings and
// returns a principal carrying username, password hash and authorities.
// Login verifies the password against the stored bcrypt hash. Both an
// unknown username and a wrong password collapse into ErrInvalidCredentials
// so login responses cannot be used to enumerate usernames.
//
// The package also carries the request middleware: Verifier checks the JWT
// from the Authorization header or the access token cookie,
// AuthUserMiddleware decodes the claims into an AuthUser on the context,
// and AdminRoleMiddleware gates the administrative routes.
package login
