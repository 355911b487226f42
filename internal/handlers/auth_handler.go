package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"staffhub/internal/apperrors"
	"staffhub/internal/config"
	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.IAuthService
	roleService *services.RoleService
}

func NewAuthHandler(authService services.IAuthService, roleService *services.RoleService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		roleService: roleService,
	}
}

func (a *AuthHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	pub := router.Group("/auth/public/api/v1")
	pub.POST("/register", a.Register)
	pub.POST("/login", a.Login)
	pub.POST("/refresh", a.Refresh)

	pro := router.Group("/auth/protected/api/v1", mw.Authenticate())
	pro.POST("/change-password", a.ChangePassword)
	pro.POST("/logout", a.Logout)
	pro.GET("/me", a.Me)
}

// InitDefaultAdmin makes sure the configured admin account exists. A
// conflict means a previous boot already created it.
func (a *AuthHandler) InitDefaultAdmin(cfg *config.Config) error {
	user, err := a.authService.Register(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}
	log.Printf("default admin account created: %s", user.ID)
	return nil
}

func (a *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	// Self-registration always yields the default role. Elevated roles are
	// granted by an admin through the role endpoints.
	user, err := a.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, models.RoleEmployee)
	if err != nil {
		log.Printf("registration failed for %s: %v", req.Username, err)
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(user))
}

func (a *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	resp, err := a.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("login failed for %s: %v", req.Username, err)
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (a *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	resp, err := a.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Printf("token refresh rejected: %v", err)
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (a *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	actor := ActorFrom(c)
	if err := a.authService.ChangePassword(c.Request.Context(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		log.Printf("password change failed for %s: %v", actor.UserID, err)
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "password changed"}))
}

func (a *AuthHandler) Logout(c *gin.Context) {
	actor := ActorFrom(c)
	if err := a.authService.Logout(c.Request.Context(), actor.UserID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "logged out"}))
}

func (a *AuthHandler) Me(c *gin.Context) {
	actor := ActorFrom(c)
	user, err := a.authService.GetUserByID(actor.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	roles, err := a.roleService.GetUserRoles(user.ID, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{
		"user":  user,
		"roles": roles,
	}))
}
