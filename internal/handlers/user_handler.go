package handlers

import (
	"net/http"

	"staffhub/internal/authz"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService  services.IAuthService
	auditService *services.AuditService
}

func NewUserHandler(authService services.IAuthService, auditService *services.AuditService) *UserHandler {
	return &UserHandler{
		authService:  authService,
		auditService: auditService,
	}
}

func (u *UserHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	router.GET("/ping", u.PingHandler)

	gr := router.Group("/auth/protected/api/v1/users", mw.Authenticate())
	gr.GET("", u.GetAllUsers)
	gr.GET("/:id", u.GetUser)
	gr.POST("/:id/ban", u.BanUser)
	gr.POST("/:id/unban", u.UnbanUser)
	gr.POST("/:id/deactivate", u.DeactivateUser)
	gr.GET("/:id/audit", u.GetUserAudit)
}

func (u *UserHandler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.CreateSuccessResponse("pong"))
}

func requireAdmin(c *gin.Context) bool {
	decision := authz.Decide(ActorFrom(c), authz.ActionUserAdmin, authz.Resource{})
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, utils.CreateErrorResponse("FORBIDDEN", decision.Reason))
		return false
	}
	return true
}

func (u *UserHandler) GetAllUsers(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	limit, offset := parsePagination(c)
	resp, err := u.authService.GetAllUsers(limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (u *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if userID != ActorFrom(c).UserID && !requireAdmin(c) {
		return
	}

	user, err := u.authService.GetUserByID(userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(user))
}

type banUserRequest struct {
	Until int64 `json:"until" binding:"required"`
}

func (u *UserHandler) BanUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req banUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	if err := u.authService.BanUser(c.Param("id"), req.Until); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "user banned"}))
}

func (u *UserHandler) UnbanUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	if err := u.authService.UnbanUser(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "user unbanned"}))
}

func (u *UserHandler) DeactivateUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	if err := u.authService.DeactivateUser(c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "user deactivated"}))
}

func (u *UserHandler) GetUserAudit(c *gin.Context) {
	limit, offset := parsePagination(c)
	logs, err := u.auditService.GetUserAuditTrail(c.Request.Context(), ActorFrom(c), c.Param("id"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"audit_logs": logs}))
}
