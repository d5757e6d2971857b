package role

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RoleRepository defines row access for roles
type RoleRepository interface {
	// FindRoles returns all roles in id-ascending order
	FindRoles(ctx context.Context) ([]Role, error)
	GetRoleById(ctx context.Context, id int64) (Role, error)
	GetRoleIdByName(ctx context.Context, name string) (int64, error)
	CreateRole(ctx context.Context, name string) (int64, error)
	UpdateRole(ctx context.Context, arg UpdateRoleParams) error
	// DeleteRole is idempotent: deleting a missing id is not an error
	DeleteRole(ctx context.Context, id int64) error
}

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db DBTX
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db DBTX) *PostgresRoleRepository {
	return &PostgresRoleRepository{
		db: db,
	}
}

func (r *PostgresRoleRepository) FindRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, role FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *PostgresRoleRepository) GetRoleById(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.db.QueryRow(ctx, `SELECT id, role FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrRoleNotFound
		}
		return Role{}, err
	}
	return role, nil
}

func (r *PostgresRoleRepository) GetRoleIdByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM roles WHERE role = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRoleNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRoleRepository) CreateRole(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO roles (role) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrRoleNameAlreadyExists{Name: name}
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRoleRepository) UpdateRole(ctx context.Context, arg UpdateRoleParams) error {
	tag, err := r.db.Exec(ctx, `UPDATE roles SET role = $2 WHERE id = $1`, arg.ID, arg.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRoleNameAlreadyExists{Name: arg.Name}
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func (r *PostgresRoleRepository) DeleteRole(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
