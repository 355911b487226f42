package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"
)

// fakeRefreshRepo mirrors the rotation semantics of the Postgres repository
// in memory for service-level tests.
type fakeRefreshRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.RefreshSession
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{sessions: make(map[string]*models.RefreshSession)}
}

func (f *fakeRefreshRepo) Rotate(_ context.Context, session *models.RefreshSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.UserID == session.UserID {
			s.Revoked = true
		}
	}
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeRefreshRepo) GetByToken(_ context.Context, token string) (*models.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, apperrors.NotFound("refresh session")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRefreshRepo) RevokeAllForUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.UserID == userID {
			s.Revoked = true
		}
	}
	return nil
}

func (f *fakeRefreshRepo) usableCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.UserID == userID && !s.Revoked {
			n++
		}
	}
	return n
}

func TestIssueSessionSingleUsable(t *testing.T) {
	repo := newFakeRefreshRepo()
	svc := NewSessionService(repo, 24*time.Hour)
	ctx := context.Background()

	first, err := svc.IssueSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	second, err := svc.IssueSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	if first.Token == second.Token {
		t.Fatal("expected distinct tokens")
	}
	if got := repo.usableCount("user-1"); got != 1 {
		t.Fatalf("usable sessions = %d, want 1", got)
	}

	if _, err := svc.PeekSession(ctx, first.Token); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("first token still usable after rotation: %v", err)
	}
	if _, err := svc.PeekSession(ctx, second.Token); err != nil {
		t.Fatalf("second token unusable: %v", err)
	}
}

func TestRedeemSessionRotates(t *testing.T) {
	repo := newFakeRefreshRepo()
	svc := NewSessionService(repo, 24*time.Hour)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	rotated, err := svc.RedeemSession(ctx, issued.Token)
	if err != nil {
		t.Fatalf("RedeemSession: %v", err)
	}
	if rotated.Token == issued.Token {
		t.Fatal("rotation returned the same token")
	}

	// Second redemption of the old token must fail.
	if _, err := svc.RedeemSession(ctx, issued.Token); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("double redeem err = %v, want ErrForbidden", err)
	}
}

func TestRedeemSessionUnknownToken(t *testing.T) {
	svc := NewSessionService(newFakeRefreshRepo(), 24*time.Hour)

	_, err := svc.RedeemSession(context.Background(), "never-issued")
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestRedeemSessionExpired(t *testing.T) {
	repo := newFakeRefreshRepo()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := t0
	svc := NewSessionService(repo, time.Hour).
		WithClock(func() time.Time { return current })
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	current = t0.Add(time.Hour - time.Second)
	if _, err := svc.PeekSession(ctx, issued.Token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Expiry is strict: the token dies at the boundary instant.
	current = t0.Add(time.Hour)
	if _, err := svc.RedeemSession(ctx, issued.Token); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden at expiry instant", err)
	}
}

func TestInvalidateUserSessions(t *testing.T) {
	repo := newFakeRefreshRepo()
	svc := NewSessionService(repo, 24*time.Hour)
	ctx := context.Background()

	issued, err := svc.IssueSession(ctx, "user-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	if err := svc.InvalidateUserSessions(ctx, "user-1"); err != nil {
		t.Fatalf("InvalidateUserSessions: %v", err)
	}
	if _, err := svc.RedeemSession(ctx, issued.Token); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden after invalidation", err)
	}
}
