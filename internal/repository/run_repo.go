package repository

import (
	"context"

	"ZMKImport/internal/model"

	"gorm.io/gorm"
)

// RunRepository 导入执行记录
type RunRepository interface {
	CreateRun(ctx context.Context, run *model.ImportRun) error
	ListRecentRuns(ctx context.Context, limit int) ([]*model.ImportRun, error)
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(ctx context.Context, run *model.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) ListRecentRuns(ctx context.Context, limit int) ([]*model.ImportRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var runs []*model.ImportRun
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
