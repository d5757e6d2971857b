package role

import (
	"errors"
	"fmt"
	"strings"
)

// Prefix is the fixed prefix carried by every stored role name.
const Prefix = "ROLE_"

var (
	ErrEmptyRoleName = errors.New("role name cannot be empty")
	ErrRoleNotFound  = errors.New("role not found")
	ErrNoRoles       = errors.New("no roles defined")
)

// ErrRoleNameAlreadyExists is returned when attempting to create a role with
// a name that already exists
type ErrRoleNameAlreadyExists struct {
	Name string
}

func (e ErrRoleNameAlreadyExists) Error() string {
	return fmt.Sprintf("role name already exists: %s", e.Name)
}

// Role is shared reference data. Users hold non-exclusive associations to
// roles; deleting a user never deletes a role.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Authority returns the name consumed by authorization checks, prefix included.
func (r Role) Authority() string {
	return r.Name
}

// Label returns the human-readable name with the prefix stripped.
func (r Role) Label() string {
	return strings.TrimPrefix(r.Name, Prefix)
}

// Normalize uppercases a submitted role name and ensures it carries the
// prefix exactly once, whatever casing the prefix arrived in.
func Normalize(name string) string {
	upper := strings.ToUpper(name)
	if strings.HasPrefix(upper, Prefix) {
		return upper
	}
	return Prefix + upper
}

// UpdateRoleParams contains parameters for renaming a role
type UpdateRoleParams struct {
	ID   int64
	Name string
}
