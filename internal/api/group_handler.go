package api

import (
	"errors"
	"net/http"
	"strconv"

	"ZMKImport/internal/model"
	"ZMKImport/internal/repository"
	"ZMKImport/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GroupHandler ZMK 目录接口
type GroupHandler struct {
	groupService *service.GroupService
	logger       *logrus.Logger
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(db *gorm.DB, logger *logrus.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: service.NewGroupService(repository.NewGroupRepository(db), logger),
		logger:       logger,
	}
}

type createGroupRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// ListGroups GET /api/zmk
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListGroups failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": groups})
}

// CreateGroup POST /api/zmk {"title": "..."}
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groupService.CreateGroup(c.Request.Context(), req.Title)
	switch {
	case errors.Is(err, service.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, model.ErrGroupExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.WithError(err).Error("CreateGroup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, group)
}

// ListTickets 某个 ZMK 的过磅单（含明细）
// GET /api/zmk/:id/rtc?page=1&page_size=20
func (h *GroupHandler) ListTickets(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.groupService.ListTickets(c.Request.Context(), id, page, pageSize)
	if errors.Is(err, model.ErrGroupNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("ListTickets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
