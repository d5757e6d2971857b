package user

import (
	"context"
	"sort"
	"sync"

	"github.com/simple-admin/simple-admin/pkg/role"
)

// InMemoryUserRepository implements UserRepository using in-memory storage
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]User
	nextID int64
}

// NewInMemoryUserRepository creates a new in-memory user repository
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[int64]User),
		nextID: 1,
	}
}

func (r *InMemoryUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *InMemoryUserRepository) GetUserById(ctx context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *InMemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return User{}, ErrUserNotFound
}

func (r *InMemoryUserRepository) CreateUser(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return User{}, ErrUsernameAlreadyExists{Username: u.Username}
		}
	}

	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = copyUser(u)
	return copyUser(u), nil
}

func (r *InMemoryUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	for _, existing := range r.users {
		if existing.Username == u.Username && existing.ID != u.ID {
			return User{}, ErrUsernameAlreadyExists{Username: u.Username}
		}
	}
	r.users[u.ID] = copyUser(u)
	return copyUser(u), nil
}

// DeleteUser deletes a user. Deleting a missing id is a no-op.
func (r *InMemoryUserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func copyUser(u User) User {
	roles := make([]role.Role, len(u.Roles))
	copy(roles, u.Roles)
	u.Roles = roles
	return u
}
