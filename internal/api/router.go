package api

import (
	"ZMKImport/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterRoutes 注册全部 API 路由
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *logrus.Logger, cfg *config.Config) {
	importHandler := NewImportHandler(db, logger, cfg)
	r.POST("/api/import", importHandler.ImportFileHandler)
	r.GET("/api/import/runs", importHandler.ListRuns)

	groupHandler := NewGroupHandler(db, logger)
	r.GET("/api/zmk", groupHandler.ListGroups)
	r.POST("/api/zmk", groupHandler.CreateGroup)
	r.GET("/api/zmk/:id/rtc", groupHandler.ListTickets)
}
