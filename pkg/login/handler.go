package login

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/simple-admin/simple-admin/auth"
	"github.com/simple-admin/simple-admin/pkg/user"
)

const AccessTokenName = "accessToken"

// Handle handles login, logout and the authenticated-self view
type Handle struct {
	loginService *LoginService
	userService  *user.UserService
	jwtService   auth.Jwt
}

func NewHandle(loginService *LoginService, userService *user.UserService, jwtService auth.Jwt) Handle {
	return Handle{
		loginService: loginService,
		userService:  userService,
		jwtService:   jwtService,
	}
}

// RegisterPublicRoutes registers the routes that do not require a token
func (h Handle) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.PostLogin)
}

// RegisterProtectedRoutes registers the routes behind the token middleware
func (h Handle) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Post("/logout", h.PostLogout)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

func (h Handle) setTokenCookie(w http.ResponseWriter, tokenValue string, expire time.Time) {
	tokenCookie := &http.Cookie{
		Name:     AccessTokenName,
		Path:     "/",
		Value:    tokenValue,
		Expires:  expire,
		HttpOnly: h.jwtService.CookieHttpOnly,
		Secure:   h.jwtService.CookieSecure,
		SameSite: http.SameSiteLaxMode, // Prevent CSRF
	}

	http.SetCookie(w, tokenCookie)
}

// PostLogin authenticates the credentials and sets the access token cookie.
// The failure message never distinguishes an unknown username from a wrong
// password.
func (h Handle) PostLogin(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	principal, err := h.loginService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		slog.Error("Failed to login", "err", err)
		http.Error(w, "Failed to login", http.StatusInternalServerError)
		return
	}

	tokenStr, expiry, err := h.jwtService.CreateAccessToken(principal.Subject(), principal)
	if err != nil {
		slog.Error("Failed to create access token", "err", err)
		http.Error(w, "Failed to login", http.StatusInternalServerError)
		return
	}
	h.setTokenCookie(w, tokenStr, expiry)

	render.JSON(w, r, LoginResponse{
		Username:    principal.Username,
		Authorities: principal.Authorities,
	})
}

// PostLogout clears the access token cookie
func (h Handle) PostLogout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", time.Unix(0, 0))
	render.NoContent(w, r)
}

type MeResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Age       int32  `json:"age"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Roles     []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Label string `json:"label"`
	} `json:"roles"`
}

// GetMe returns the authenticated user's own record
func (h Handle) GetMe(w http.ResponseWriter, r *http.Request) {
	authUser, ok := AuthUserFromContext(r.Context())
	if !ok {
		slog.Error("Failed getting AuthUser", "ok", ok)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	u, err := h.userService.GetUserByUsername(r.Context(), authUser.Username)
	if err != nil {
		slog.Error("Failed getting me", "username", authUser.Username, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	response := MeResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Email:     u.Email,
		Username:  u.Username,
	}
	for _, ro := range u.Roles {
		response.Roles = append(response.Roles, struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Label string `json:"label"`
		}{ID: ro.ID, Name: ro.Name, Label: ro.Label()})
	}
	render.JSON(w, r, response)
}
