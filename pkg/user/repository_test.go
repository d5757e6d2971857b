package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simple-admin/simple-admin/pkg/role"
)

// scriptDB fakes a transaction-capable store. Statements issued outside a
// transaction are recorded separately from statements issued inside one.
type scriptDB struct {
	failJoinInsert bool
	begun          []*scriptTx
	direct         []string
}

func (d *scriptDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &scriptTx{db: d}
	d.begun = append(d.begun, tx)
	return tx, nil
}

func (d *scriptDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	d.direct = append(d.direct, sql)
	return pgconn.CommandTag{}, errors.New("statement outside transaction")
}

func (d *scriptDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	d.direct = append(d.direct, sql)
	return nil, errors.New("statement outside transaction")
}

func (d *scriptDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	d.direct = append(d.direct, sql)
	return scriptRow{err: errors.New("statement outside transaction")}
}

type scriptTx struct {
	db         *scriptDB
	stmts      []string
	committed  bool
	rolledBack bool
}

func (t *scriptTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *scriptTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *scriptTx) Rollback(ctx context.Context) error {
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *scriptTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	t.stmts = append(t.stmts, sql)
	switch {
	case strings.Contains(sql, "UPDATE users"):
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case strings.Contains(sql, "DELETE FROM user_roles"):
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.Contains(sql, "INSERT INTO user_roles"):
		if t.db.failJoinInsert {
			return pgconn.CommandTag{}, errors.New("insert or update on table \"user_roles\" violates foreign key constraint")
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unscripted statement: " + sql)
}

func (t *scriptTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	t.stmts = append(t.stmts, sql)
	return nil, errors.New("unscripted query: " + sql)
}

func (t *scriptTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	t.stmts = append(t.stmts, sql)
	if strings.Contains(sql, "INSERT INTO users") {
		return scriptRow{id: 1}
	}
	return scriptRow{err: errors.New("unscripted query: " + sql)}
}

func (t *scriptTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}

func (t *scriptTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *scriptTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *scriptTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}

func (t *scriptTx) Conn() *pgx.Conn { return nil }

type scriptRow struct {
	id  int64
	err error
}

func (r scriptRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int64); ok {
			*p = r.id
		}
	}
	return nil
}

func TestUpdateUserRollsBackWhenJoinInsertFails(t *testing.T) {
	db := &scriptDB{failJoinInsert: true}
	repo := NewPostgresUserRepository(db)

	_, err := repo.UpdateUser(context.Background(), User{
		ID:       7,
		Username: "ada",
		Roles:    []role.Role{{ID: 3, Name: "ROLE_USER"}},
	})
	require.Error(t, err)

	// The whole replace ran inside one transaction that was rolled back, so
	// the failed re-insert cannot strand the user with zero roles.
	require.Len(t, db.begun, 1)
	tx := db.begun[0]
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)

	joinDeleted := false
	for _, stmt := range tx.stmts {
		if strings.Contains(stmt, "DELETE FROM user_roles") {
			joinDeleted = true
		}
	}
	assert.True(t, joinDeleted)
	assert.Empty(t, db.direct)
}

func TestCreateUserRollsBackWhenJoinInsertFails(t *testing.T) {
	db := &scriptDB{failJoinInsert: true}
	repo := NewPostgresUserRepository(db)

	_, err := repo.CreateUser(context.Background(), User{
		Username: "bob",
		Password: "hash",
		Roles:    []role.Role{{ID: 3, Name: "ROLE_USER"}},
	})
	require.Error(t, err)

	// The user row insert must not survive the failed role attachment
	require.Len(t, db.begun, 1)
	tx := db.begun[0]
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	assert.Empty(t, db.direct)
}
