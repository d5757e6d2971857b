package user

import (
	"errors"
	"fmt"

	"github.com/simple-admin/simple-admin/pkg/role"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)

// ErrUsernameAlreadyExists is returned when attempting to create a user with
// a username that already exists
type ErrUsernameAlreadyExists struct {
	Username string
}

func (e ErrUsernameAlreadyExists) Error() string {
	return fmt.Sprintf("username already exists: %s", e.Username)
}

// User is the aggregate managed by the admin panel: the row plus its owned
// role associations. The roles themselves are shared reference data.
type User struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Age       int32       `json:"age"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Password  string      `json:"-"` // bcrypt hash, never plaintext once persisted
	Roles     []role.Role `json:"roles"`
}

// CreateUserParams contains parameters for creating a new user.
// RoleIDs may be nil, in which case the default role is attached.
type CreateUserParams struct {
	FirstName string
	LastName  string
	Age       int32
	Email     string
	Username  string
	Password  string
	RoleIDs   []int64
}

// UpdateUserParams contains parameters for a full-replace update.
// An empty Password keeps the stored hash untouched; a non-empty one is
// hashed and replaces it.
type UpdateUserParams struct {
	FirstName string
	LastName  string
	Age       int32
	Email     string
	Username  string
	Password  string
	RoleIDs   []int64
}
