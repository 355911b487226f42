package handlers

import (
	"net/http"

	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
	taskService     *services.TaskService
	noteService     *services.NoteService
}

func NewEmployeeHandler(employeeService *services.EmployeeService, taskService *services.TaskService, noteService *services.NoteService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		taskService:     taskService,
		noteService:     noteService,
	}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	gr := router.Group("/staff/protected/api/v1/employees", mw.Authenticate())
	gr.POST("", h.CreateEmployee)
	gr.GET("", h.ListEmployees)
	gr.GET("/:id", h.GetEmployee)
	gr.PUT("/:id", h.UpdateEmployee)
	gr.DELETE("/:id", h.TerminateEmployee)
	gr.GET("/:id/tasks", h.ListEmployeeTasks)
	gr.GET("/:id/notes", h.ListEmployeeNotes)

	me := router.Group("/staff/protected/api/v1/me", mw.Authenticate())
	me.PUT("/profile", h.UpdateOwnProfile)
	me.POST("/resign", h.Resign)
	me.GET("/tasks", h.ListOwnTasks)
	me.GET("/assigned-tasks", h.ListOwnAssignedTasks)
	me.GET("/notes", h.ListOwnNotes)
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	emp, err := h.employeeService.CreateEmployee(c.Request.Context(), ActorFrom(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(emp))
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	limit, offset := parsePagination(c)
	resp, err := h.employeeService.ListEmployees(c.Request.Context(), ActorFrom(c), c.Query("department_id"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(resp))
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	emp, err := h.employeeService.GetEmployee(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(emp))
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	emp, err := h.employeeService.UpdateEmployee(c.Request.Context(), ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(emp))
}

func (h *EmployeeHandler) TerminateEmployee(c *gin.Context) {
	if err := h.employeeService.TerminateEmployee(c.Request.Context(), ActorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "employee terminated"}))
}

func (h *EmployeeHandler) ListEmployeeTasks(c *gin.Context) {
	limit, offset := parsePagination(c)
	tasks, err := h.taskService.ListTasksForEmployee(c.Request.Context(), ActorFrom(c), c.Param("id"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"tasks": tasks}))
}

type updateOwnProfileRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *EmployeeHandler) UpdateOwnProfile(c *gin.Context) {
	var req updateOwnProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	emp, err := h.employeeService.UpdateOwnProfile(c.Request.Context(), ActorFrom(c), req.Phone)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(emp))
}

func (h *EmployeeHandler) Resign(c *gin.Context) {
	if err := h.employeeService.Resign(c.Request.Context(), ActorFrom(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "resignation recorded"}))
}

func (h *EmployeeHandler) ListOwnTasks(c *gin.Context) {
	actor := ActorFrom(c)
	if actor.EmployeeID == "" {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("NO_EMPLOYEE_RECORD", "no employee record linked to this account"))
		return
	}

	limit, offset := parsePagination(c)
	tasks, err := h.taskService.ListTasksForEmployee(c.Request.Context(), actor, actor.EmployeeID, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"tasks": tasks}))
}

func (h *EmployeeHandler) ListOwnAssignedTasks(c *gin.Context) {
	limit, offset := parsePagination(c)
	tasks, err := h.taskService.ListTasksAssignedBy(c.Request.Context(), ActorFrom(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"tasks": tasks}))
}

func (h *EmployeeHandler) ListOwnNotes(c *gin.Context) {
	limit, offset := parsePagination(c)
	notes, err := h.noteService.ListMyNotes(c.Request.Context(), ActorFrom(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"notes": notes}))
}

func (h *EmployeeHandler) ListEmployeeNotes(c *gin.Context) {
	limit, offset := parsePagination(c)
	notes, err := h.noteService.GetNotesForEmployee(c.Request.Context(), ActorFrom(c), c.Param("id"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"notes": notes}))
}
