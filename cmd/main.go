package main

import (
	"fmt"
	"log"

	"ZMKImport/internal/api"
	"ZMKImport/internal/config"
	"ZMKImport/internal/database"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.Info("配置文件加载成功")

	// 3. 初始化数据库连接（PostgreSQL 库不存在则先创建再连）
	db, err := database.Open(&cfg.Database, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("%v", err)
	}

	// 4. 库表不存在则自动创建
	if err := database.Migrate(db); err != nil {
		logrusLogger.Fatalf("%v", err)
	}
	logrusLogger.Info("数据库表结构检查完成（不存在则已创建）")

	// 5. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.MaxMultipartMemory = cfg.Import.MaxUploadBytes()

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 6. 注册API路由
	api.RegisterRoutes(r, db, logrusLogger, cfg)

	// 7. 启动服务（从配置读取端口）
	port := cfg.Server.Port
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Fatalf("启动服务失败: %v", err)
	}
}
