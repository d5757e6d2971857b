package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/simple-admin/simple-admin/pkg/user"
)

var (
	// ErrUserNotFound means the username has no matching user. The login
	// handler must never surface this distinctly from a wrong password.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// the response cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthUser is the authenticated principal: username, password hash and the
// authority set projected from the user's roles. An empty authority set is
// valid and means "no permissions".
type AuthUser struct {
	UserID       int64    `json:"user_id,omitempty"`
	Username     string   `json:"username,omitempty"`
	Authorities  []string `json:"role,omitempty"`
	PasswordHash string   `json:"-"`
}

// HasAuthority reports whether the principal carries the given authority
func (a AuthUser) HasAuthority(name string) bool {
	for _, authority := range a.Authorities {
		if authority == name {
			return true
		}
	}
	return false
}

func (a AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", a.Username),
		slog.Any("role", a.Authorities),
	)
}

// LoginService bridges stored users into the authentication model
type LoginService struct {
	repo   user.UserRepository
	hasher PasswordHasher
}

func NewLoginService(repo user.UserRepository, hasher PasswordHasher) *LoginService {
	return &LoginService{
		repo:   repo,
		hasher: hasher,
	}
}

// LoadUserByUsername looks up a user by username and projects its role set
// into the authority representation. The principal is never partially
// loaded: either the lookup fails or the full authority set comes back.
func (s *LoginService) LoadUserByUsername(ctx context.Context, username string) (AuthUser, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return AuthUser{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return AuthUser{}, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	authorities := make([]string, 0, len(u.Roles))
	for _, ro := range u.Roles {
		authorities = append(authorities, ro.Authority())
	}

	return AuthUser{
		UserID:       u.ID,
		Username:     u.Username,
		Authorities:  authorities,
		PasswordHash: u.Password,
	}, nil
}

// Login authenticates a username/password pair
func (s *LoginService) Login(ctx context.Context, username, password string) (AuthUser, error) {
	principal, err := s.LoadUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthUser{}, ErrInvalidCredentials
		}
		return AuthUser{}, err
	}

	valid, err := s.hasher.Verify(password, principal.PasswordHash)
	if err != nil {
		return AuthUser{}, fmt.Errorf("error checking password: %w", err)
	}
	if !valid {
		return AuthUser{}, ErrInvalidCredentials
	}

	return principal, nil
}

// Subject returns the token subject for a principal
func (a AuthUser) Subject() string {
	return strconv.FormatInt(a.UserID, 10)
}
