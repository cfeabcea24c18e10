package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ZMKImport/internal/interfaces"
	"ZMKImport/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// naturalKeyIndex rtc 表自然键唯一索引名
const naturalKeyIndex = "uk_rtc_natural_key"

// lineBatchSize 明细批量插入的每批条数
const lineBatchSize = 500

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) interfaces.TicketStore {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) FindGroupByTitle(ctx context.Context, title string) (*model.GroupEntity, error) {
	var group model.GroupEntity
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrGroupNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("查询ZMK失败: %w, title: %s", err, title)
	}
	return &group, nil
}

// InsertTicket 直接插入；命中自然键唯一索引时返回 ExistingKey
func (r *TicketRepository) InsertTicket(ctx context.Context, ticket *model.Ticket) (model.InsertOutcome, error) {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(ticket).Error
	if err == nil {
		return model.Inserted, nil
	}
	if isNaturalKeyViolation(err) {
		return model.ExistingKey, nil
	}
	return 0, err
}

func (r *TicketRepository) FindTicketByNaturalKey(ctx context.Context, key model.NaturalKey) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := r.db.WithContext(ctx).
		Where("zmk_id = ? AND date = ? AND unloading_date = ? AND weight = ?",
			key.GroupEntityID, key.Date, key.UnloadingDate, key.Weight).
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// BulkUpdateTickets 在一个事务内按主键更新指定字段
func (r *TicketRepository) BulkUpdateTickets(ctx context.Context, tickets []*model.Ticket, fields []string) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tickets {
			if t.ID == 0 {
				return fmt.Errorf("过磅单缺少主键, date: %s", t.Date.Format("2006-01-02"))
			}
			if err := tx.Model(t).Select(fields).Updates(t).Error; err != nil {
				return fmt.Errorf("更新过磅单失败: %w, id: %d", err, t.ID)
			}
		}
		return nil
	})
}

// BulkInsertLines 批量插入明细，冲突行忽略
func (r *TicketRepository) BulkInsertLines(ctx context.Context, lines []*model.TicketLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(lines, lineBatchSize).Error
}

// isNaturalKeyViolation rtc 表上唯一的唯一约束就是自然键
func isNaturalKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), naturalKeyIndex)
}
