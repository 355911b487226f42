package services

import (
	"context"
	"fmt"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"
	"staffhub/internal/repository"

	"github.com/google/uuid"
)

// SessionService manages the refresh-session lifecycle. Issuing a session
// always goes through rotation, so a user never holds more than one usable
// refresh token.
type SessionService struct {
	sessionRepo repository.IRefreshTokenRepository
	refreshTTL  time.Duration

	now func() time.Time
}

func NewSessionService(sessionRepo repository.IRefreshTokenRepository, refreshTTL time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin expiry checks.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// IssueSession revokes the user's current refresh session and creates a
// fresh one in the same transaction.
func (s *SessionService) IssueSession(ctx context.Context, userID string) (*models.RefreshSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	session := &models.RefreshSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTTL),
		CreatedAt: s.now(),
		Revoked:   false,
	}

	if err := s.sessionRepo.Rotate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return session, nil
}

// RedeemSession validates a presented refresh token and rotates it. A revoked
// or expired token is rejected, and an unknown one maps to the same failure
// so callers cannot probe which tokens ever existed.
func (s *SessionService) RedeemSession(ctx context.Context, token string) (*models.RefreshSession, error) {
	if token == "" {
		return nil, apperrors.BadRequest("refresh token cannot be empty")
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperrors.Forbidden("refresh token is not recognized")
	}

	if !session.Usable(s.now()) {
		return nil, apperrors.Forbidden("refresh token is revoked or expired")
	}

	return s.IssueSession(ctx, session.UserID)
}

// PeekSession validates a refresh token without rotating it.
func (s *SessionService) PeekSession(ctx context.Context, token string) (*models.RefreshSession, error) {
	if token == "" {
		return nil, apperrors.BadRequest("refresh token cannot be empty")
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperrors.Forbidden("refresh token is not recognized")
	}

	if !session.Usable(s.now()) {
		return nil, apperrors.Forbidden("refresh token is revoked or expired")
	}

	return session, nil
}

// InvalidateUserSessions revokes every refresh session of the user. Used on
// logout and after password changes.
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	return s.sessionRepo.RevokeAllForUser(ctx, userID)
}
