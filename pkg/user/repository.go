package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/simple-admin/simple-admin/pkg/role"
)

// UserRepository defines row access for users and their role associations.
// Lookups always return the user with its role set fully loaded; a partial
// load would be a correctness bug for authorization.
type UserRepository interface {
	FindUsers(ctx context.Context) ([]User, error)
	GetUserById(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	// CreateUser inserts the user row plus its join rows and assigns the id
	CreateUser(ctx context.Context, u User) (User, error)
	// UpdateUser fully replaces the user row and its join rows
	UpdateUser(ctx context.Context, u User) (User, error)
	// DeleteUser is idempotent: deleting a missing id is not an error
	DeleteUser(ctx context.Context, id int64) error
}

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// txBeginner is satisfied by pgxpool.Pool. When the underlying DBTX can
// begin a transaction, multi-statement writes run inside one.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db DBTX
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (r *PostgresUserRepository) FindUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, firstname, lastname, age, email, username, password
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	index := make(map[int64]int)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.Username, &u.Password); err != nil {
			return nil, err
		}
		u.Roles = []role.Role{}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := r.db.Query(ctx, `
		SELECT ur.user_id, ro.id, ro.role
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		ORDER BY ur.user_id, ro.id`)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var userID int64
		var ro role.Role
		if err := roleRows.Scan(&userID, &ro.ID, &ro.Name); err != nil {
			return nil, err
		}
		if i, ok := index[userID]; ok {
			users[i].Roles = append(users[i].Roles, ro)
		}
	}
	return users, roleRows.Err()
}

func (r *PostgresUserRepository) GetUserById(ctx context.Context, id int64) (User, error) {
	return r.getUser(ctx, `
		SELECT id, firstname, lastname, age, email, username, password
		FROM users
		WHERE id = $1`, id)
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return r.getUser(ctx, `
		SELECT id, firstname, lastname, age, email, username, password
		FROM users
		WHERE username = $1`, username)
}

func (r *PostgresUserRepository) getUser(ctx context.Context, query string, arg interface{}) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}

	roles, err := r.getUserRoles(ctx, u.ID)
	if err != nil {
		return User{}, err
	}
	u.Roles = roles
	return u, nil
}

func (r *PostgresUserRepository) getUserRoles(ctx context.Context, userID int64) ([]role.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ro.id, ro.role
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []role.Role{}
	for rows.Next() {
		var ro role.Role
		if err := rows.Scan(&ro.ID, &ro.Name); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}

// withTx runs fn inside a transaction when the underlying DBTX can begin
// one, and directly otherwise (the caller is already inside a transaction).
func (r *PostgresUserRepository) withTx(ctx context.Context, fn func(db DBTX) error) error {
	if beginner, ok := r.db.(txBeginner); ok {
		return pgx.BeginFunc(ctx, beginner, func(tx pgx.Tx) error {
			return fn(tx)
		})
	}
	return fn(r.db)
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u User) (User, error) {
	// The user row and its join rows land atomically or not at all
	err := r.withTx(ctx, func(db DBTX) error {
		err := db.QueryRow(ctx, `
			INSERT INTO users (firstname, lastname, age, email, username, password)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			u.FirstName, u.LastName, u.Age, u.Email, u.Username, u.Password).Scan(&u.ID)
		if err != nil {
			return err
		}
		return insertUserRoles(ctx, db, u.ID, u.Roles)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameAlreadyExists{Username: u.Username}
		}
		return User{}, err
	}
	return r.GetUserById(ctx, u.ID)
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u User) (User, error) {
	// Row update and join-row replacement commit together: a failure while
	// re-inserting the roles must not strand the user with none.
	err := r.withTx(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, `
			UPDATE users
			SET firstname = $2, lastname = $3, age = $4, email = $5, username = $6, password = $7
			WHERE id = $1`,
			u.ID, u.FirstName, u.LastName, u.Age, u.Email, u.Username, u.Password)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}

		// Replace the join rows wholesale
		if _, err := db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, u.ID); err != nil {
			return err
		}
		return insertUserRoles(ctx, db, u.ID, u.Roles)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameAlreadyExists{Username: u.Username}
		}
		return User{}, err
	}
	return r.GetUserById(ctx, u.ID)
}

func insertUserRoles(ctx context.Context, db DBTX, userID int64, roles []role.Role) error {
	for _, ro := range roles {
		_, err := db.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, userID, ro.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	// Join rows go with the user via ON DELETE CASCADE
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
