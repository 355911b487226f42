package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"staffhub/internal/authz"
	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

func (r *RoleHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	gr := router.Group("/auth/protected/api/v1/roles", mw.Authenticate())
	gr.GET("", r.ListRoles)
	gr.GET("/:id", r.GetRole)
	gr.POST("", r.CreateRole)
	gr.PUT("/:id", r.UpdateRole)
	gr.DELETE("/:id", r.DeactivateRole)
	gr.GET("/:id/users", r.GetRoleUsers)

	ur := router.Group("/auth/protected/api/v1/users", mw.Authenticate())
	ur.GET("/:id/roles", r.GetUserRoles)
	ur.POST("/:id/roles/:role_id", r.AssignRole)
	ur.DELETE("/:id/roles/:role_id", r.RemoveRole)
}

// InitDefaultRoles seeds the three built-in roles. Conflicts are fine,
// another boot got there first.
func (r *RoleHandler) InitDefaultRoles() error {
	seeds := []struct {
		name, display, desc string
	}{
		{models.RoleEmployee, "Employee", "Default role for staff accounts"},
		{models.RoleManager, "Manager", "Manages employees within a department"},
		{models.RoleAdmin, "Admin", "Full administrative access"},
	}
	for _, seed := range seeds {
		if _, err := r.roleService.GetRoleByName(seed.name); err == nil {
			continue
		}
		role, err := r.roleService.CreateRole(seed.name, seed.display, seed.desc)
		if err != nil {
			return fmt.Errorf("default role %s creation failed: %w", seed.name, err)
		}
		log.Printf("default role created: %s (id=%d)", role.Name, role.ID)
	}
	return nil
}

// requireRoleAdmin gates role management behind the policy.
func (r *RoleHandler) requireRoleAdmin(c *gin.Context) bool {
	decision := authz.Decide(ActorFrom(c), authz.ActionRoleAssign, authz.Resource{})
	if !decision.Allowed {
		c.JSON(http.StatusForbidden, utils.CreateErrorResponse("FORBIDDEN", decision.Reason))
		return false
	}
	return true
}

func (r *RoleHandler) ListRoles(c *gin.Context) {
	limit, offset := parsePagination(c)
	activeOnly := c.DefaultQuery("active", "true") == "true"

	roles, err := r.roleService.GetAllRoles(activeOnly, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(models.PaginatedRolesResponse{
		Roles:  roles,
		Total:  len(roles),
		Limit:  limit,
		Offset: offset,
	}))
}

func (r *RoleHandler) GetRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	role, err := r.roleService.GetRole(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(role))
}

func (r *RoleHandler) CreateRole(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	role, err := r.roleService.CreateRole(req.Name, req.DisplayName, req.Description)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(role))
}

func (r *RoleHandler) UpdateRole(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	role, err := r.roleService.GetRole(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	role.DisplayName = req.DisplayName
	role.Description = req.Description

	if err := r.roleService.UpdateRole(role); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(role))
}

func (r *RoleHandler) DeactivateRole(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	if err := r.roleService.DeactivateRole(id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "role deactivated"}))
}

func (r *RoleHandler) GetRoleUsers(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	userIDs, err := r.roleService.GetRoleUsers(id, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"user_ids": userIDs}))
}

func (r *RoleHandler) GetUserRoles(c *gin.Context) {
	actor := ActorFrom(c)
	userID := c.Param("id")

	// Anyone may read their own roles; reading others' takes admin.
	if userID != actor.UserID && !r.requireRoleAdmin(c) {
		return
	}

	roles, err := r.roleService.GetUserRoles(userID, true)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"roles": roles}))
}

func (r *RoleHandler) AssignRole(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	userID := c.Param("id")
	roleID, err := strconv.Atoi(c.Param("role_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	var req models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	assignedBy := req.AssignedBy
	if assignedBy == nil {
		actorID := ActorFrom(c).UserID
		assignedBy = &actorID
	}

	if err := r.roleService.AssignRoleToUser(userID, roleID, assignedBy, req.ExpiresAt); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "role assigned"}))
}

func (r *RoleHandler) RemoveRole(c *gin.Context) {
	if !r.requireRoleAdmin(c) {
		return
	}

	userID := c.Param("id")
	roleID, err := strconv.Atoi(c.Param("role_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("BAD_REQUEST", "role id must be numeric"))
		return
	}

	if err := r.roleService.RemoveRoleFromUser(userID, roleID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "role removed"}))
}
