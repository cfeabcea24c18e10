package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"ZMKImport/internal/importer"
	"ZMKImport/internal/interfaces"
	"ZMKImport/internal/model"
	"ZMKImport/internal/repository"
	"ZMKImport/internal/sheet"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ImportService 过磅单文件导入服务
type ImportService struct {
	store  interfaces.TicketStore
	runs   repository.RunRepository
	logger *logrus.Logger
}

// NewImportService runs 为 nil 时不记录导入历史
func NewImportService(store interfaces.TicketStore, runs repository.RunRepository, logger *logrus.Logger) *ImportService {
	return &ImportService{
		store:  store,
		runs:   runs,
		logger: logger,
	}
}

// ImportResult 导入结果
type ImportResult struct {
	RunID   string            `json:"run_id"`
	Summary *importer.Summary `json:"summary"`
}

// ImportFile 读取上传的 xlsx 活动工作表并导入。找不到 ZMK 时返回的错误包装了 model.ErrGroupNotFound，
// 文件无法解析时包装了 sheet.ErrInvalidWorkbook。
func (s *ImportService) ImportFile(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	runID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"run_id": runID, "file": fileName})
	log.Info("开始导入")

	grid, err := sheet.Load(r)
	if err != nil {
		s.recordRun(ctx, log, runID, fileName, nil, err)
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	summary, err := importer.New(s.store, log).Import(ctx, grid)
	s.recordRun(ctx, log, runID, fileName, summary, err)
	result := &ImportResult{RunID: runID, Summary: summary}
	if err != nil {
		log.WithError(err).Error("导入失败")
		return result, err
	}

	totals := summary.Totals()
	log.WithFields(logrus.Fields{
		"tables":   len(summary.Tables),
		"parsed":   totals.Parsed,
		"inserted": totals.Inserted,
		"updated":  totals.Updated,
		"lines":    totals.Lines,
	}).Info("导入完成")
	return result, nil
}

// ListRuns 最近的导入记录
func (s *ImportService) ListRuns(ctx context.Context, limit int) ([]*model.ImportRun, error) {
	if s.runs == nil {
		return []*model.ImportRun{}, nil
	}
	return s.runs.ListRecentRuns(ctx, limit)
}

// recordRun 写入导入记录，失败只记日志
func (s *ImportService) recordRun(ctx context.Context, log *logrus.Entry, runID, fileName string, summary *importer.Summary, importErr error) {
	if s.runs == nil {
		return
	}
	run := &model.ImportRun{
		RunUUID:  runID,
		FileName: fileName,
		Status:   model.ImportRunSuccess,
	}
	if importErr != nil {
		msg := importErr.Error()
		run.Status = model.ImportRunFailed
		run.Error = &msg
	}
	if summary != nil {
		stats, err := json.Marshal(summary)
		if err != nil {
			log.WithError(err).Warn("序列化导入统计失败")
		} else {
			run.Stats = datatypes.JSON(stats)
		}
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		log.WithError(err).Warn("保存导入记录失败")
	}
}
