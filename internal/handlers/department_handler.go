package handlers

import (
	"net/http"

	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	gr := router.Group("/staff/protected/api/v1/departments", mw.Authenticate())
	gr.POST("", h.CreateDepartment)
	gr.GET("", h.ListDepartments)
	gr.GET("/:id", h.GetDepartment)
	gr.DELETE("/:id", h.DeleteDepartment)
	gr.POST("/:id/designations", h.CreateDesignation)
	gr.GET("/:id/designations", h.ListDesignations)
}

func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req models.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), ActorFrom(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(dept))
}

func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.departmentService.ListDepartments(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"departments": depts}))
}

func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, err := h.departmentService.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(dept))
}

func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.departmentService.DeleteDepartment(c.Request.Context(), ActorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "department deleted"}))
}

func (h *DepartmentHandler) CreateDesignation(c *gin.Context) {
	var req models.CreateDesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}
	req.DepartmentID = c.Param("id")

	desig, err := h.departmentService.CreateDesignation(c.Request.Context(), ActorFrom(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(desig))
}

func (h *DepartmentHandler) ListDesignations(c *gin.Context) {
	desigs, err := h.departmentService.ListDesignations(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"designations": desigs}))
}
