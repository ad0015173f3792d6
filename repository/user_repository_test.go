package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-account-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "email", "password", "first_name", "last_name",
	"is_active", "is_staff", "is_superuser", "created", "updated"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userRow(rows *sqlmock.Rows, id uuid.UUID, username string) *sqlmock.Rows {
	created := time.Date(2025, 2, 12, 19, 46, 0, 0, time.UTC)
	return rows.AddRow(id.String(), username, username+"@x.com", "$2a$10$digest", nil, "Smith",
		true, false, false, created, created)
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2025, 2, 12, 19, 46, 0, 0, time.UTC)

	user := &model.User{Username: "alice", Email: "alice@x.com", Password: "digest", IsActive: true}
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@x.com", "digest", nil, nil, true, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"created", "updated"}).AddRow(created, created))

	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUserDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreateUser(context.Background(), &model.User{Username: "alice", Email: "alice@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(userRow(sqlmock.NewRows(userRowColumns), id, "alice"))

	user, err := repo.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.FirstName)
	assert.Equal(t, "Smith", user.LastName)

	mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userRowColumns)
	userRow(rows, uuid.New(), "alice")
	userRow(rows, uuid.New(), "bob")
	mock.ExpectQuery(`SELECT .* FROM users ORDER BY created`).WillReturnRows(rows)

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteUser(context.Background(), id))

	mock.ExpectExec(`DELETE FROM users`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteUser(context.Background(), id), ErrNotFound)

	dbErr := errors.New("connection refused")
	mock.ExpectExec(`DELETE FROM users`).WithArgs(id).WillReturnError(dbErr)
	assert.ErrorIs(t, repo.DeleteUser(context.Background(), id), dbErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
