package handlers

import (
	"net/http"

	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

func (h *NoteHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	gr := router.Group("/staff/protected/api/v1/notes", mw.Authenticate())
	gr.POST("", h.CreateNote)
	gr.PUT("/:id", h.UpdateNote)
	gr.DELETE("/:id", h.DeleteNote)
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), ActorFrom(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(note))
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req models.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(note))
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteService.DeleteNote(c.Request.Context(), ActorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "note deleted"}))
}
