package role

import (
	"context"
	"fmt"
)

// RoleService provides methods for role management and role resolution
type RoleService struct {
	repo RoleRepository
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	return s.repo.FindRoles(ctx)
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRoleById(ctx, id)
}

// GetRoleIdByName retrieves a role id by its full, prefixed name
func (s *RoleService) GetRoleIdByName(ctx context.Context, name string) (int64, error) {
	return s.repo.GetRoleIdByName(ctx, name)
}

// CreateRole adds a new role. The name is normalized to carry the role prefix.
func (s *RoleService) CreateRole(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, ErrEmptyRoleName
	}
	return s.repo.CreateRole(ctx, Normalize(name))
}

// UpdateRole renames an existing role
func (s *RoleService) UpdateRole(ctx context.Context, id int64, name string) error {
	if name == "" {
		return ErrEmptyRoleName
	}
	return s.repo.UpdateRole(ctx, UpdateRoleParams{ID: id, Name: Normalize(name)})
}

// DeleteRole removes a role
func (s *RoleService) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// ResolveRoles converts submitted role ids into a deduplicated set of roles.
//
// A nil id list selects the fallback: the first role in id-ascending order,
// returned as a single-element set. An unknown id fails the whole resolution
// with ErrRoleNotFound rather than leaving a hole in the result.
func (s *RoleService) ResolveRoles(ctx context.Context, ids []int64) ([]Role, error) {
	roles, err := s.repo.FindRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	if ids == nil {
		if len(roles) == 0 {
			return nil, ErrNoRoles
		}
		return []Role{roles[0]}, nil
	}

	seen := make(map[int64]bool, len(ids))
	resolved := make([]Role, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		found := false
		for _, role := range roles {
			if role.ID == id {
				resolved = append(resolved, role)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: id %d", ErrRoleNotFound, id)
		}
		seen[id] = true
	}
	return resolved, nil
}
