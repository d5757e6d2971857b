package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simple-admin/simple-admin/pkg/role"
	"github.com/simple-admin/simple-admin/pkg/user"
)

const (
	AdminRoleName = "ROLE_ADMIN"
	UserRoleName  = "ROLE_USER"
)

// SeedUser describes one user the seed guarantees to exist
type SeedUser struct {
	FirstName string
	LastName  string
	Age       int32
	Email     string
	Username  string
	Password  string
	RoleName  string
}

// Config contains the seed data and service dependencies
type Config struct {
	RoleService *role.RoleService
	UserService *user.UserService

	Admin SeedUser
	User  SeedUser
}

// Result reports what the seed created versus found already present
type Result struct {
	RolesCreated int
	UsersCreated int
}

// Seed guarantees the two bootstrap roles and the two bootstrap users
// exist. Every insert is gated by an existence check, so running the seed
// again never duplicates rows.
func Seed(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.RoleService == nil || cfg.UserService == nil {
		return nil, fmt.Errorf("seed requires role and user services")
	}

	result := &Result{}

	for _, name := range []string{AdminRoleName, UserRoleName} {
		created, err := ensureRole(ctx, cfg.RoleService, name)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure role %s: %w", name, err)
		}
		if created {
			result.RolesCreated++
		}
	}

	for _, seed := range []SeedUser{cfg.Admin, cfg.User} {
		created, err := ensureUser(ctx, cfg.RoleService, cfg.UserService, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure user %s: %w", seed.Username, err)
		}
		if created {
			result.UsersCreated++
		}
	}

	slog.Info("Bootstrap seed completed",
		"roles_created", result.RolesCreated,
		"users_created", result.UsersCreated)
	return result, nil
}

func ensureRole(ctx context.Context, roleService *role.RoleService, name string) (bool, error) {
	_, err := roleService.GetRoleIdByName(ctx, name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, role.ErrRoleNotFound) {
		return false, err
	}

	if _, err := roleService.CreateRole(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

func ensureUser(ctx context.Context, roleService *role.RoleService, userService *user.UserService, seed SeedUser) (bool, error) {
	if seed.Username == "" {
		return false, fmt.Errorf("seed user requires a username")
	}

	_, err := userService.GetUserByUsername(ctx, seed.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return false, err
	}

	roleID, err := roleService.GetRoleIdByName(ctx, seed.RoleName)
	if err != nil {
		return false, err
	}

	_, err = userService.CreateUser(ctx, user.CreateUserParams{
		FirstName: seed.FirstName,
		LastName:  seed.LastName,
		Age:       seed.Age,
		Email:     seed.Email,
		Username:  seed.Username,
		Password:  seed.Password,
		RoleIDs:   []int64{roleID},
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
