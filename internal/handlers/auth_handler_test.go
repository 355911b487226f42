package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffhub/internal/apperrors"
	"staffhub/internal/models"

	"github.com/gin-gonic/gin"
)

type stubAuthService struct {
	loginFn    func(username, password string) (*models.AuthResponse, error)
	registerFn func(username, email, password, role string) (*models.User, error)
	refreshFn  func(token string) (*models.AuthResponse, error)
}

func (s *stubAuthService) Register(_ context.Context, username, email, password, role string) (*models.User, error) {
	return s.registerFn(username, email, password, role)
}

func (s *stubAuthService) Login(_ context.Context, username, password string) (*models.AuthResponse, error) {
	return s.loginFn(username, password)
}

func (s *stubAuthService) Refresh(_ context.Context, token string) (*models.AuthResponse, error) {
	return s.refreshFn(token)
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error { return nil }
func (s *stubAuthService) Logout(context.Context, string) error                         { return nil }
func (s *stubAuthService) GetUserByID(string) (*models.User, error)                     { return nil, apperrors.NotFound("no user") }
func (s *stubAuthService) GetAllUsers(int, int) (*models.GetAllUsersResponse, error)    { return nil, nil }
func (s *stubAuthService) BanUser(string, int64) error                                  { return nil }
func (s *stubAuthService) UnbanUser(string) error                                       { return nil }
func (s *stubAuthService) DeactivateUser(string) error                                  { return nil }

func newTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAuthHandler(svc, nil)
	pub := router.Group("/auth/public/api/v1")
	pub.POST("/register", handler.Register)
	pub.POST("/login", handler.Login)
	pub.POST("/refresh", handler.Refresh)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpointSuccess(t *testing.T) {
	router := newTestRouter(&stubAuthService{
		loginFn: func(username, password string) (*models.AuthResponse, error) {
			if username != "alice" || password != "passw0rd!" {
				t.Fatalf("unexpected credentials: %s/%s", username, password)
			}
			return &models.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				TokenType:    "Bearer",
				Username:     "alice",
			}, nil
		},
	})

	w := postJSON(t, router, "/auth/public/api/v1/login", models.LoginRequest{Username: "alice", Password: "passw0rd!"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool                `json:"success"`
		Data    models.AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.TokenType != "Bearer" || resp.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoginEndpointMapsUnauthorized(t *testing.T) {
	router := newTestRouter(&stubAuthService{
		loginFn: func(string, string) (*models.AuthResponse, error) {
			return nil, apperrors.Unauthorized("username or password incorrect")
		},
	})

	w := postJSON(t, router, "/auth/public/api/v1/login", models.LoginRequest{Username: "alice", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLoginEndpointRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubAuthService{
		loginFn: func(string, string) (*models.AuthResponse, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/public/api/v1/login", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegisterEndpointMapsConflict(t *testing.T) {
	router := newTestRouter(&stubAuthService{
		registerFn: func(string, string, string, string) (*models.User, error) {
			return nil, apperrors.Conflict("username already taken")
		},
	})

	w := postJSON(t, router, "/auth/public/api/v1/register", models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "passw0rd!",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRegisterEndpointIgnoresClientRole(t *testing.T) {
	var gotRole string
	router := newTestRouter(&stubAuthService{
		registerFn: func(_, _, _, role string) (*models.User, error) {
			gotRole = role
			return &models.User{ID: "US1", Username: "eve"}, nil
		},
	})

	w := postJSON(t, router, "/auth/public/api/v1/register", gin.H{
		"username": "eve",
		"email":    "eve@example.com",
		"password": "passw0rd!",
		"role":     models.RoleAdmin,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotRole != models.RoleEmployee {
		t.Fatalf("role = %q, want %q", gotRole, models.RoleEmployee)
	}
}

func TestRefreshEndpointMapsForbidden(t *testing.T) {
	router := newTestRouter(&stubAuthService{
		refreshFn: func(string) (*models.AuthResponse, error) {
			return nil, apperrors.Forbidden("refresh token is revoked or expired")
		},
	})

	w := postJSON(t, router, "/auth/public/api/v1/refresh", models.RefreshTokenRequest{RefreshToken: "stale"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
