package api

import (
	"errors"
	"net/http"
	"strconv"

	"ZMKImport/internal/config"
	"ZMKImport/internal/model"
	"ZMKImport/internal/repository"
	"ZMKImport/internal/service"
	"ZMKImport/internal/sheet"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ImportHandler struct {
	importService *service.ImportService
	cfg           config.ImportConfig
	logger        *logrus.Logger
}

func NewImportHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		importService: service.NewImportService(
			repository.NewTicketRepository(db),
			repository.NewRunRepository(db),
			logger,
		),
		cfg:    cfg.Import,
		logger: logger,
	}
}

// ImportFileHandler 上传 xlsx 并导入活动工作表中的全部 ZMK 表格
// @Summary 导入过磅单
// @Param file formData file true "xlsx 文件"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/import [post]
func (h *ImportHandler) ImportFileHandler(c *gin.Context) {
	field := h.cfg.FormField
	if field == "" {
		field = "file"
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes())

	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "文件过大"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": field + ": 未提交文件"})
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.importService.ImportFile(c.Request.Context(), fh.Filename, file)
	if err != nil {
		h.logger.Errorf("导入%s失败: %v", fh.Filename, err)
		c.JSON(importErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "导入成功",
		"run_id":  result.RunID,
		"summary": result.Summary,
	})
}

// ListRuns 最近导入记录
// GET /api/import/runs?limit=50
func (h *ImportHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.importService.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListRuns failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, sheet.ErrInvalidWorkbook), errors.Is(err, sheet.ErrNoActiveSheet):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
