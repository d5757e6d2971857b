package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simple-admin/simple-admin/pkg/notification"
	"github.com/simple-admin/simple-admin/pkg/role"
)

// PasswordHasher hashes plaintext passwords before they are persisted
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserService orchestrates user CRUD: passwords are hashed and roles are
// resolved and attached before anything reaches the repository.
type UserService struct {
	repo        UserRepository
	roleService *role.RoleService
	hasher      PasswordHasher
	notifier    *notification.NotificationManager
}

type Option func(*UserService)

// WithNotifications enables welcome notices on user creation
func WithNotifications(nm *notification.NotificationManager) Option {
	return func(s *UserService) {
		s.notifier = nm
	}
}

func NewUserService(repo UserRepository, roleService *role.RoleService, hasher PasswordHasher, opts ...Option) *UserService {
	svc := &UserService{
		repo:        repo,
		roleService: roleService,
		hasher:      hasher,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *UserService) FindUsers(ctx context.Context) ([]User, error) {
	return s.repo.FindUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUserById(ctx, id)
}

// GetUserByUsername serves both the authenticated-self view and the login
// lookup. The role set comes back fully loaded.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}

// CreateUser hashes the password, resolves the submitted role ids and
// persists the assembled aggregate. A nil RoleIDs attaches the default role.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Username == "" {
		return User{}, ErrUsernameRequired
	}
	if params.Password == "" {
		return User{}, ErrPasswordRequired
	}

	roles, err := s.roleService.ResolveRoles(ctx, params.RoleIDs)
	if err != nil {
		return User{}, fmt.Errorf("failed to resolve roles: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.CreateUser(ctx, User{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Age:       params.Age,
		Email:     params.Email,
		Username:  params.Username,
		Password:  hash,
		Roles:     roles,
	})
	if err != nil {
		return User{}, err
	}

	s.sendWelcomeNotice(created)
	return created, nil
}

// UpdateUser replaces the user's attributes and role set wholesale. The
// password is an optional change: an empty value keeps the stored hash, so
// an unchanged form submit never re-hashes an already-hashed value.
func (s *UserService) UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (User, error) {
	existing, err := s.repo.GetUserById(ctx, id)
	if err != nil {
		return User{}, err
	}

	roles, err := s.roleService.ResolveRoles(ctx, params.RoleIDs)
	if err != nil {
		return User{}, fmt.Errorf("failed to resolve roles: %w", err)
	}

	password := existing.Password
	passwordChanged := params.Password != ""
	if passwordChanged {
		password, err = s.hasher.Hash(params.Password)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	updated, err := s.repo.UpdateUser(ctx, User{
		ID:        id,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Age:       params.Age,
		Email:     params.Email,
		Username:  params.Username,
		Password:  password,
		Roles:     roles,
	})
	if err != nil {
		return User{}, err
	}

	if passwordChanged {
		s.sendPasswordChangedNotice(updated)
	}
	return updated, nil
}

// DeleteUser removes a user by id. Deleting a missing id is a no-op.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

// sendWelcomeNotice is best effort: a notification failure never fails the create
func (s *UserService) sendWelcomeNotice(u User) {
	if s.notifier == nil || u.Email == "" {
		return
	}
	err := s.notifier.Send(notification.WelcomeNotice, notification.NotificationData{
		To: u.Email,
		Data: map[string]string{
			"Username":  u.Username,
			"FirstName": u.FirstName,
		},
	})
	if err != nil {
		slog.Error("Failed sending welcome notice", "username", u.Username, "err", err)
	}
}

// sendPasswordChangedNotice is best effort: a notification failure never fails the update
func (s *UserService) sendPasswordChangedNotice(u User) {
	if s.notifier == nil || u.Email == "" {
		return
	}
	err := s.notifier.Send(notification.PasswordChangedNotice, notification.NotificationData{
		To: u.Email,
		Data: map[string]string{
			"Username": u.Username,
		},
	})
	if err != nil {
		slog.Error("Failed sending password changed notice", "username", u.Username, "err", err)
	}
}
