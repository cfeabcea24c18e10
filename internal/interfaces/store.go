package interfaces

import (
	"context"

	"ZMKImport/internal/model"
)

// TicketStore 导入引擎依赖的存储接口
type TicketStore interface {
	// FindGroupByTitle 按标题精确查找 ZMK，找不到时返回包装了 model.ErrGroupNotFound 的错误
	FindGroupByTitle(ctx context.Context, title string) (*model.GroupEntity, error)
	// InsertTicket 插入过磅单；自然键冲突返回 model.ExistingKey 而不是错误
	InsertTicket(ctx context.Context, ticket *model.Ticket) (model.InsertOutcome, error)
	FindTicketByNaturalKey(ctx context.Context, key model.NaturalKey) (*model.Ticket, error)
	BulkUpdateTickets(ctx context.Context, tickets []*model.Ticket, fields []string) error
	// BulkInsertLines 批量插入明细，重复插入忽略
	BulkInsertLines(ctx context.Context, lines []*model.TicketLine) error
}
