package repository

import (
	"context"
	"errors"
	"fmt"

	"ZMKImport/internal/model"

	"gorm.io/gorm"
)

// MaxPageSize 过磅单分页每页上限
const MaxPageSize = 100

// GroupRepository ZMK 目录与过磅单查询
type GroupRepository interface {
	ListGroups(ctx context.Context) ([]*model.GroupEntity, error)
	// CreateGroup 标题重复时返回 model.ErrGroupExists
	CreateGroup(ctx context.Context, title string) (*model.GroupEntity, error)
	GetGroupByID(ctx context.Context, id uint64) (*model.GroupEntity, error)
	// ListTickets 分页查询某个 ZMK 的过磅单（含明细）
	ListTickets(ctx context.Context, groupID uint64, page, pageSize int) ([]*model.Ticket, int64, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) ListGroups(ctx context.Context) ([]*model.GroupEntity, error) {
	var groups []*model.GroupEntity
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) CreateGroup(ctx context.Context, title string) (*model.GroupEntity, error) {
	group := &model.GroupEntity{Title: title}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", model.ErrGroupExists, title)
		}
		return nil, err
	}
	return group, nil
}

func (r *groupRepository) GetGroupByID(ctx context.Context, id uint64) (*model.GroupEntity, error) {
	var group model.GroupEntity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", model.ErrGroupNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListTickets(ctx context.Context, groupID uint64, page, pageSize int) ([]*model.Ticket, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	db := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("zmk_id = ?", groupID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tickets []*model.Ticket
	if err := db.Preload("Lines").
		Order("date DESC").Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}
