// Package importer 在单个工作表中发现多个 ZMK 表格，读取过磅单并按自然键合并入库
package importer

import (
	"context"
	"fmt"

	"ZMKImport/internal/interfaces"
	"ZMKImport/internal/model"
	"ZMKImport/internal/sheet"

	"github.com/sirupsen/logrus"
)

// Importer 导入协调器
type Importer struct {
	store  interfaces.TicketStore
	logger logrus.FieldLogger
}

func New(store interfaces.TicketStore, logger logrus.FieldLogger) *Importer {
	return &Importer{store: store, logger: logger}
}

// TableSummary 单个表格的导入统计
type TableSummary struct {
	Group    string `json:"group"`
	Column   int    `json:"column"`
	Parsed   int    `json:"parsed"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Lines    int    `json:"lines"`
}

// Summary 一次导入的统计，按锚点顺序
type Summary struct {
	Tables []TableSummary `json:"tables"`
}

// Totals 汇总所有表格
func (s *Summary) Totals() TableSummary {
	var total TableSummary
	if s == nil {
		return total
	}
	for _, t := range s.Tables {
		total.Parsed += t.Parsed
		total.Inserted += t.Inserted
		total.Updated += t.Updated
		total.Lines += t.Lines
	}
	return total
}

// Import 发现所有表格后逐表读取并合并。任一锚点找不到 ZMK 时在写入前整体中止；
// 其余错误直接返回，已处理的表格不回滚。
func (i *Importer) Import(ctx context.Context, ws sheet.Worksheet) (*Summary, error) {
	tables, err := i.SetupTables(ctx, ws)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		i.logger.Warn("工作表中未发现表格")
	}

	summary := &Summary{Tables: make([]TableSummary, 0, len(tables))}
	for _, table := range tables {
		tickets, lines := table.ReadRows(ws)
		result, err := i.Merge(ctx, tickets, lines)
		result.Group = table.Group.Title
		result.Column = table.Anchor.Column
		result.Parsed = len(tickets)
		summary.Tables = append(summary.Tables, result)
		if err != nil {
			return summary, fmt.Errorf("导入%s失败: %w", table.Group.Title, err)
		}
		i.logger.WithFields(logrus.Fields{
			"zmk":      result.Group,
			"parsed":   result.Parsed,
			"inserted": result.Inserted,
			"updated":  result.Updated,
			"lines":    result.Lines,
		}).Info("表格导入完成")
	}
	return summary, nil
}

// SetupTables 在第一行有值的行中收集锚点，每个锚点按标题解析为 ZMK。
// 只扫描这一行：仅含空白文本的单元格也算锚点，之后的行不再作为锚点。
func (i *Importer) SetupTables(ctx context.Context, ws sheet.Worksheet) ([]*TableReader, error) {
	var anchors []sheet.Cell
	for row := 1; row <= ws.MaxRow(); row++ {
		for _, cell := range sheet.RowCells(ws, row, 1, 0) {
			if cell.Value != nil {
				anchors = append(anchors, cell)
			}
		}
		if len(anchors) > 0 {
			break
		}
	}

	tables := make([]*TableReader, 0, len(anchors))
	for idx, anchor := range anchors {
		group, err := i.store.FindGroupByTitle(ctx, anchorTitle(anchor.Value))
		if err != nil {
			return nil, err
		}
		var next *sheet.Cell
		if idx+1 < len(anchors) {
			next = &anchors[idx+1]
		}
		tables = append(tables, NewTableReader(anchor, group, next))
	}
	return tables, nil
}

// anchorTitle 锚点按原文查找，空白文本不做裁剪
func anchorTitle(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s := sheet.AsString(v); s != nil {
		return *s
	}
	return ""
}

// Merge 两阶段合并：逐条插入，新建的过磅单挂上非空明细；自然键冲突的过磅单
// 取回已有主键后一次性批量更新。冲突过磅单的明细本轮不处理。
func (i *Importer) Merge(ctx context.Context, tickets []TicketRecord, lines [][]LineRecord) (TableSummary, error) {
	var result TableSummary
	var newLines []*model.TicketLine
	var updates []*model.Ticket

	for idx, rec := range tickets {
		ticket, err := rec.Ticket()
		if err != nil {
			return result, fmt.Errorf("第%d条过磅单数据无效: %w", idx+1, err)
		}
		outcome, err := i.store.InsertTicket(ctx, ticket)
		if err != nil {
			return result, fmt.Errorf("保存过磅单失败: %w", err)
		}
		if outcome == model.ExistingKey {
			updates = append(updates, ticket)
			continue
		}
		result.Inserted++
		if idx >= len(lines) {
			continue
		}
		for _, l := range lines[idx] {
			line, ok, err := l.Line(ticket.ID)
			if err != nil {
				return result, fmt.Errorf("第%d条过磅单明细无效: %w", idx+1, err)
			}
			if ok {
				newLines = append(newLines, line)
			}
		}
	}

	for _, ticket := range updates {
		stored, err := i.store.FindTicketByNaturalKey(ctx, ticket.NaturalKey())
		if err != nil {
			return result, fmt.Errorf("查询已有过磅单失败: %w", err)
		}
		ticket.ID = stored.ID
	}
	if len(updates) > 0 {
		if err := i.store.BulkUpdateTickets(ctx, updates, model.UpdatableTicketFields); err != nil {
			return result, fmt.Errorf("批量更新过磅单失败: %w", err)
		}
		result.Updated = len(updates)
	}
	if len(newLines) > 0 {
		if err := i.store.BulkInsertLines(ctx, newLines); err != nil {
			return result, fmt.Errorf("批量保存明细失败: %w", err)
		}
		result.Lines = len(newLines)
	}
	return result, nil
}
