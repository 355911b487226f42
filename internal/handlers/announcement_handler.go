package handlers

import (
	"net/http"

	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/utils"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService *services.AnnouncementService
}

func NewAnnouncementHandler(announcementService *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
	}
}

func (h *AnnouncementHandler) RegisterRoutes(router *gin.Engine, mw *Middleware) {
	gr := router.Group("/staff/protected/api/v1/announcements", mw.Authenticate())
	gr.POST("", h.CreateAnnouncement)
	gr.GET("", h.ListAnnouncements)
	gr.DELETE("/:id", h.DeleteAnnouncement)
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST_FORMAT", "invalid request format"))
		return
	}

	ann, err := h.announcementService.CreateAnnouncement(c.Request.Context(), ActorFrom(c), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(ann))
}

func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	limit, offset := parsePagination(c)
	anns, err := h.announcementService.ListAnnouncements(c.Request.Context(), ActorFrom(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"announcements": anns}))
}

func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcementService.DeleteAnnouncement(c.Request.Context(), ActorFrom(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"message": "announcement deleted"}))
}
