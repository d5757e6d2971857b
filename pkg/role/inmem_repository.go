package role

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRoleRepository implements RoleRepository using in-memory storage
type InMemoryRoleRepository struct {
	mu     sync.RWMutex
	roles  map[int64]Role
	nextID int64
}

// NewInMemoryRoleRepository creates a new in-memory role repository
func NewInMemoryRoleRepository() *InMemoryRoleRepository {
	return &InMemoryRoleRepository{
		roles:  make(map[int64]Role),
		nextID: 1,
	}
}

// FindRoles returns all roles in id-ascending order
func (r *InMemoryRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// GetRoleById retrieves a role by id
func (r *InMemoryRoleRepository) GetRoleById(ctx context.Context, id int64) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return Role{}, ErrRoleNotFound
	}
	return role, nil
}

// GetRoleIdByName retrieves a role id by name
func (r *InMemoryRoleRepository) GetRoleIdByName(ctx context.Context, name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			return role.ID, nil
		}
	}
	return 0, ErrRoleNotFound
}

// CreateRole creates a new role and assigns its id
func (r *InMemoryRoleRepository) CreateRole(ctx context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, role := range r.roles {
		if role.Name == name {
			return 0, ErrRoleNameAlreadyExists{Name: name}
		}
	}

	id := r.nextID
	r.nextID++
	r.roles[id] = Role{ID: id, Name: name}
	return id, nil
}

// UpdateRole renames an existing role
func (r *InMemoryRoleRepository) UpdateRole(ctx context.Context, arg UpdateRoleParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roles[arg.ID]; !ok {
		return ErrRoleNotFound
	}
	for _, role := range r.roles {
		if role.Name == arg.Name && role.ID != arg.ID {
			return ErrRoleNameAlreadyExists{Name: arg.Name}
		}
	}
	r.roles[arg.ID] = Role{ID: arg.ID, Name: arg.Name}
	return nil
}

// DeleteRole deletes a role. Deleting a missing id is a no-op.
func (r *InMemoryRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.roles, id)
	return nil
}
