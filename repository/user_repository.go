package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-account-api/logger"
	"go-account-api/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const uniqueViolation = pq.ErrorCode("23505")

const userColumns = `id, username, email, password, first_name, last_name, is_active, is_staff, is_superuser, created, updated`

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user      model.User
		firstName sql.NullString
		lastName  sql.NullString
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &firstName, &lastName,
		&user.IsActive, &user.IsStaff, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName.String
	user.LastName = lastName.String
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateUser inserts user, assigning a new id when it has none.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (id, username, email, password, first_name, last_name, is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created, updated`
	err := r.DB.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.Password,
		nullString(user.FirstName), nullString(user.LastName), user.IsActive, user.IsStaff, user.IsSuperuser,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Info("User already exists")
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create user query")
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).Error("Failed to execute get user query")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// ExistsByUsernameOrEmail reports whether either identity is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	if err := r.DB.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		logger.Log.WithError(err).Error("Failed to execute user exists query")
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// ListUsers returns every user ordered by registration time.
func (r *UserRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	logger.Log.Info("Executing query to list users")

	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list users query")
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the user; assigned tokens go with it through ON DELETE CASCADE.
func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
