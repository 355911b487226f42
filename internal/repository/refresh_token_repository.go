package repository

import (
	"context"
	"database/sql"
	"fmt"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/jmoiron/sqlx"
)

type IRefreshTokenRepository interface {
	// Rotate revokes every non-revoked session of the user and inserts the
	// replacement in the same transaction, serialized per user so concurrent
	// rotations cannot leave two live sessions.
	Rotate(ctx context.Context, session *models.RefreshSession) error
	GetByToken(ctx context.Context, token string) (*models.RefreshSession, error)
	RevokeAllForUser(ctx context.Context, userID string) error
}

type RefreshTokenRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenRepository(db *sqlx.DB) IRefreshTokenRepository {
	return &RefreshTokenRepository{
		db: db,
	}
}

func (r *RefreshTokenRepository) Rotate(ctx context.Context, session *models.RefreshSession) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback()

	// Row lock on the user serializes concurrent rotations. Without it two
	// READ COMMITTED transactions could both revoke and both insert, leaving
	// two live sessions for one user. The unique partial index on
	// refresh_sessions is the backstop.
	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, session.UserID); err != nil {
		return fmt.Errorf("failed to lock user for rotation: %w", err)
	}

	revoke := `UPDATE refresh_sessions SET revoked = true WHERE user_id = $1 AND NOT revoked`
	if _, err := tx.ExecContext(ctx, revoke, session.UserID); err != nil {
		return fmt.Errorf("failed to revoke previous sessions: %w", err)
	}

	insert := `
		INSERT INTO refresh_sessions (id, user_id, token, expires_at, created_at, revoked)
		VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked)
	`
	if _, err := tx.NamedExecContext(ctx, insert, session); err != nil {
		return fmt.Errorf("failed to insert refresh session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshSession, error) {
	var session models.RefreshSession
	query := `SELECT * FROM refresh_sessions WHERE token = $1`

	err := r.db.GetContext(ctx, &session, query, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("refresh session")
		}
		return nil, fmt.Errorf("failed to get refresh session: %w", err)
	}

	return &session, nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query := `UPDATE refresh_sessions SET revoked = true WHERE user_id = $1 AND NOT revoked`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}
