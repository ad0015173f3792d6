// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-account-api/logger"
	"go-account-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for assigned token database operations.
type ITokenRepository interface {
	DeactivateByDevice(ctx context.Context, kind model.TokenKind, userID uuid.UUID, deviceID string) error
	Insert(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error
	RotateDeviceToken(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error
	FindActiveByTokenID(ctx context.Context, kind model.TokenKind, tokenID uuid.UUID) (*model.User, error)
}

// TokenRepository implements ITokenRepository on top of the
// assigned_access_tokens and assigned_refresh_tokens tables.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func tableFor(kind model.TokenKind) (string, error) {
	switch kind {
	case model.TokenAccess:
		return "assigned_access_tokens", nil
	case model.TokenRefresh:
		return "assigned_refresh_tokens", nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

func deviceOrDefault(deviceID string) string {
	if deviceID == "" {
		return model.DefaultDeviceID
	}
	return deviceID
}

// DeactivateByDevice marks every active token of kind for (userID, deviceID) inactive.
// It is a no-op when nothing matches.
func (r *TokenRepository) DeactivateByDevice(ctx context.Context, kind model.TokenKind, userID uuid.UUID, deviceID string) error {
	return deactivateByDevice(ctx, r.DB, kind, userID, deviceID)
}

// Insert stores token as an active record.
func (r *TokenRepository) Insert(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error {
	return insertToken(ctx, r.DB, kind, token)
}

// RotateDeviceToken deactivates the device's current tokens of kind and
// inserts token in a single transaction. The owning user row is locked first
// so concurrent rotations for the same user run one after another.
func (r *TokenRepository) RotateDeviceToken(ctx context.Context, kind model.TokenKind, token *model.AssignedToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"kind":      kind,
		"user_id":   token.UserID,
		"device_id": deviceOrDefault(token.DeviceID),
	})
	log.Debug("Rotating device token")

	err := WithTx(ctx, r.DB, nil, func(ctx context.Context, tx DBTX) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, token.UserID).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}
		if err := deactivateByDevice(ctx, tx, kind, token.UserID, token.DeviceID); err != nil {
			return err
		}
		return insertToken(ctx, tx, kind, token)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to rotate device token")
		}
		return err
	}
	return nil
}

func deactivateByDevice(ctx context.Context, db DBTX, kind model.TokenKind, userID uuid.UUID, deviceID string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET is_active = FALSE WHERE user_id = $1 AND device_id = $2 AND is_active`, table)
	if _, err := db.ExecContext(ctx, query, userID, deviceOrDefault(deviceID)); err != nil {
		return fmt.Errorf("deactivate %s tokens: %w", kind, err)
	}
	return nil
}

func insertToken(ctx context.Context, db DBTX, kind model.TokenKind, token *model.AssignedToken) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	token.DeviceID = deviceOrDefault(token.DeviceID)
	token.IsActive = true

	query := fmt.Sprintf(`INSERT INTO %s (jti, is_active, expired_time, device_id, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`, table)
	err = db.QueryRowContext(ctx, query, token.TokenID, token.IsActive, token.ExpiredTime, token.DeviceID, token.UserID).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("insert %s token: %w", kind, err)
	}
	return nil
}

// FindActiveByTokenID returns the owner of the active token with the given jti.
// It returns ErrTokenNotFound when the id is unknown or was deactivated.
func (r *TokenRepository) FindActiveByTokenID(ctx context.Context, kind model.TokenKind, tokenID uuid.UUID) (*model.User, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT u.id, u.username, u.email, u.password, u.first_name, u.last_name,
		u.is_active, u.is_staff, u.is_superuser, u.created, u.updated
		FROM users u JOIN %s t ON t.user_id = u.id
		WHERE t.jti = $1 AND t.is_active`, table)
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, tokenID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		logger.Log.WithError(err).WithField("jti", tokenID).Error("Failed to execute find active token query")
		return nil, fmt.Errorf("find active %s token: %w", kind, err)
	}
	return user, nil
}
