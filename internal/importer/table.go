package importer

import (
	"ZMKImport/internal/model"
	"ZMKImport/internal/sheet"
)

// TableReader 读取一个 ZMK 表格：锚点单元格为表名，横向范围到下一个锚点前一列
type TableReader struct {
	Anchor   sheet.Cell
	Group    *model.GroupEntity
	startRow int
	startCol int
	endCol   int // 0 表示到工作表最后一列
}

// NewTableReader next 为 nil 表示这是最后一个表格
func NewTableReader(anchor sheet.Cell, group *model.GroupEntity, next *sheet.Cell) *TableReader {
	r := &TableReader{
		Anchor:   anchor,
		Group:    group,
		startRow: anchor.Row,
		startCol: anchor.Column,
	}
	if next != nil {
		r.endCol = next.Column - 1
	}
	return r
}

// Columns 解析锚点下方第 2 行的表头
func (r *TableReader) Columns(ws sheet.Worksheet) ColumnMap {
	return buildColumnMap(sheet.RowCells(ws, r.startRow+HeaderRowOffset, r.startCol, r.endCol))
}

// ReadRows 逐行读取数据：日期单元格没有值即结束本表，卸货日期没有值则跳过该行。
// 仅含空白的文本算作有值，交给后续日期解析报错。
// 返回的两个切片等长且一一对应。
func (r *TableReader) ReadRows(ws sheet.Worksheet) ([]TicketRecord, [][]LineRecord) {
	columns := r.Columns(ws)
	tickets := []TicketRecord{}
	lines := [][]LineRecord{}

	for row := r.startRow + DataRowOffset; row <= ws.MaxRow(); row++ {
		cells := sheet.RowCells(ws, row, r.startCol, r.endCol)
		rec := TicketRecord{
			Group:         r.Group,
			Date:          columns.value(cells, FieldDate),
			Weight:        columns.value(cells, FieldWeight),
			Status:        columns.value(cells, FieldStatus),
			UPD:           columns.value(cells, FieldUPD),
			UnloadingDate: columns.value(cells, FieldUnloadingDate),
		}
		if rec.Date == nil {
			break
		}
		if rec.UnloadingDate == nil {
			continue
		}
		objects := make([]LineRecord, 0, len(columns.Objects))
		for _, idx := range columns.Objects {
			var v any
			if idx < len(cells) {
				v = cells[idx].Value
			}
			objects = append(objects, LineRecord{ObjectWeight: v})
		}
		tickets = append(tickets, rec)
		lines = append(lines, objects)
	}
	return tickets, lines
}
