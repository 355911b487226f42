package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/repository"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

type Middleware struct {
	jwtService   *services.JWTService
	authService  services.IAuthService
	employeeRepo repository.IEmployeeRepository
}

func NewMiddleware(jwtService *services.JWTService, authService services.IAuthService, employeeRepo repository.IEmployeeRepository) *Middleware {
	return &Middleware{
		jwtService:   jwtService,
		authService:  authService,
		employeeRepo: employeeRepo,
	}
}

func (m *Middleware) RegisterRoutes(routes *gin.Engine) {
	routes.GET("/auth/validate", m.ValidateToken)
}

// Authenticate verifies the bearer token and loads the actor's employment
// facts into the request context. Handlers downstream read the actor with
// ActorFrom and never touch the token again.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
			return
		}

		claims, err := m.jwtService.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse("INVALID_TOKEN", "token validation failed"))
			return
		}

		actor := authz.Actor{
			UserID:   claims.UserID,
			Username: claims.Username,
			Roles:    claims.Roles,
		}

		// Employment facts are best effort. A user without an employee
		// record simply carries no department, and the policy treats the
		// missing fact as a denial where it matters.
		if user, err := m.authService.GetUserByID(claims.UserID); err == nil && user.EmployeeID != nil {
			actor.EmployeeID = *user.EmployeeID
			if emp, err := m.employeeRepo.GetEmployeeByID(*user.EmployeeID); err == nil {
				actor.DepartmentID = emp.DepartmentID
			}
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor placed by Authenticate.
func ActorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}

// ValidateToken is a ForwardAuth endpoint for the gateway: it answers 200
// with identity headers when the bearer token checks out.
func (m *Middleware) ValidateToken(c *gin.Context) {
	tokenString, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
		return
	}

	claims, err := m.jwtService.VerifyToken(tokenString)
	if err != nil {
		log.Printf("token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("INVALID_TOKEN", "token validation failed"))
		return
	}

	c.Header("X-User-ID", claims.UserID)
	c.Header("X-User-Name", claims.Username)
	c.Header("X-User-Roles", strings.Join(claims.Roles, ","))

	c.JSON(http.StatusOK, utils.SuccessResponse{
		Success: true,
		Data:    nil,
		Meta: &utils.Meta{
			Timestamp: time.Now(),
		},
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:], true
	}
	return authHeader, true
}

// writeServiceError translates a service error kind to an HTTP response.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", reason(err)))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, utils.CreateErrorResponse("UNAUTHORIZED", reason(err)))
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, utils.CreateErrorResponse("FORBIDDEN", reason(err)))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("NOT_FOUND", reason(err)))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, utils.CreateErrorResponse("CONFLICT", reason(err)))
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse("INTERNAL_ERROR", "internal server error"))
	}
}

// reason strips the sentinel prefix so the client sees only the message.
func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
