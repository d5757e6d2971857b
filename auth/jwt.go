package auth

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Jwt issues HS256-signed tokens carried by the login cookie or the
// Authorization header.
type Jwt struct {
	Secret            string
	CookieHttpOnly    bool
	CookieSecure      bool
	AccessTokenExpiry time.Duration
}

type Option func(*Jwt)

func WithCookieHttpOnly(httpOnly bool) Option {
	return func(j *Jwt) {
		j.CookieHttpOnly = httpOnly
	}
}

func WithCookieSecure(secure bool) Option {
	return func(j *Jwt) {
		j.CookieSecure = secure
	}
}

func WithAccessTokenExpiry(expiry time.Duration) Option {
	return func(j *Jwt) {
		j.AccessTokenExpiry = expiry
	}
}

func NewJwtServiceOptions(secret string, opts ...Option) *Jwt {
	jwtSvc := &Jwt{
		Secret:            secret,
		AccessTokenExpiry: 15 * time.Minute,
	}

	for _, opt := range opts {
		opt(jwtSvc)
	}

	return jwtSvc
}

// CreateAccessToken builds and signs an access token for the given subject.
// customClaims lands under the "custom_claims" key.
func (j Jwt) CreateAccessToken(subject string, customClaims interface{}) (string, time.Time, error) {
	expiry := time.Now().UTC().Add(j.AccessTokenExpiry)
	claims := jwt.MapClaims{
		"jti":           uuid.New().String(),
		"sub":           subject,
		"iat":           time.Now().UTC().Unix(),
		"exp":           expiry.Unix(),
		"custom_claims": customClaims,
	}
	tokenStr, err := j.CreateTokenStr(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenStr, expiry, nil
}

func (j Jwt) CreateTokenStr(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(j.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return "", err
	}
	return ss, nil
}

// ParseTokenStr verifies the signature and returns the token claims
func (j Jwt) ParseTokenStr(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
