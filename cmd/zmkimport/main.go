// zmkimport 命令行导入工具：不启动 HTTP 服务，直接导入本地 xlsx 文件
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ZMKImport/internal/config"
	"ZMKImport/internal/database"
	"ZMKImport/internal/repository"
	"ZMKImport/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configDir string
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zmkimport",
		Short: "从 xlsx 文件导入过磅单（RTC）",
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "config.yaml 所在目录")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	importCmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "导入工作簿活动工作表中的全部 ZMK 表格",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新数据库表结构",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
	addGroupCmd := &cobra.Command{
		Use:   "add-zmk [title]",
		Short: "登记 ZMK 名称，之后才能导入其表格",
		Args:  cobra.ExactArgs(1),
		RunE:  runAddGroup,
	}
	rootCmd.AddCommand(importCmd, migrateCmd, addGroupCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup 加载配置、连接数据库并迁移表结构
func setup() (*gorm.DB, *logrus.Logger, error) {
	cfg, err := config.LoadConfigFrom(configDir)
	if err != nil {
		return nil, nil, err
	}
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	db, err := database.Open(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("文件不存在: %s", inputPath)
	}

	db, logger, err := setup()
	if err != nil {
		return err
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	svc := service.NewImportService(repository.NewTicketRepository(db), repository.NewRunRepository(db), logger)
	result, err := svc.ImportFile(cmd.Context(), filepath.Base(inputPath), f)
	if err != nil {
		return fmt.Errorf("导入失败: %w", err)
	}

	// 输出本次导入统计
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, logger, err := setup()
	if err != nil {
		return err
	}
	logger.Info("数据库表结构检查完成")
	return nil
}

func runAddGroup(cmd *cobra.Command, args []string) error {
	db, logger, err := setup()
	if err != nil {
		return err
	}
	svc := service.NewGroupService(repository.NewGroupRepository(db), logger)
	group, err := svc.CreateGroup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", group.ID, group.Title)
	return nil
}
