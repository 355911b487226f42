package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"staffhub/internal/authz"
	"staffhub/internal/models"

	"github.com/gin-gonic/gin"
)

func newUserAdminRouter(actor authz.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(actorContextKey, actor)
		c.Next()
	})
	handler := NewUserHandler(&stubAuthService{}, nil)
	router.GET("/users", handler.GetAllUsers)
	return router
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserAdminEndpointsGatedByPolicy(t *testing.T) {
	admin := authz.Actor{UserID: "u1", Roles: []string{models.RoleAdmin}}
	if w := getPath(t, newUserAdminRouter(admin), "/users"); w.Code != http.StatusOK {
		t.Fatalf("admin list users: expected 200, got %d", w.Code)
	}

	manager := authz.Actor{UserID: "u2", Roles: []string{models.RoleManager}, EmployeeID: "e2", DepartmentID: "d1"}
	if w := getPath(t, newUserAdminRouter(manager), "/users"); w.Code != http.StatusForbidden {
		t.Fatalf("manager list users: expected 403, got %d", w.Code)
	}
}
