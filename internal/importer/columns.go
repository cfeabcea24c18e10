package importer

import "ZMKImport/internal/sheet"

// Field 表头对应的语义字段
type Field int

const (
	FieldNumber Field = iota + 1
	FieldDate
	FieldWeight
	FieldStatus
	FieldUnloadingDate
	FieldUPD
)

// 表头行位于锚点行下方第 2 行，数据从第 3 行开始
const (
	HeaderRowOffset = 2
	DataRowOffset   = 3
)

// headerLabels 字段与本地化表头文字的对应关系，按文字精确匹配
var headerLabels = []struct {
	field Field
	label string
}{
	{FieldNumber, "№"},
	{FieldDate, "Дата"},
	{FieldWeight, "Вес(тн)"},
	{FieldStatus, "Статус"},
	{FieldUnloadingDate, "Дата выгрузки"},
	{FieldUPD, "№ УПД"},
}

func (f Field) String() string {
	switch f {
	case FieldNumber:
		return "number"
	case FieldDate:
		return "date"
	case FieldWeight:
		return "weight"
	case FieldStatus:
		return "status"
	case FieldUnloadingDate:
		return "unloading_date"
	case FieldUPD:
		return "upd"
	default:
		return "unknown"
	}
}

// Label 返回字段的表头文字
func (f Field) Label() string {
	for _, h := range headerLabels {
		if h.field == f {
			return h.label
		}
	}
	return ""
}

// lookupField 非文本单元格永远不匹配
func lookupField(v any) (Field, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	for _, h := range headerLabels {
		if h.label == s {
			return h.field, true
		}
	}
	return 0, false
}

// ColumnMap 表头解析结果，索引是相对表格起始列的位置
type ColumnMap struct {
	fields  map[Field]int
	Objects []int
}

// Index 返回字段所在列，未识别时 ok 为 false
func (m ColumnMap) Index(f Field) (int, bool) {
	idx, ok := m.fields[f]
	return idx, ok
}

// value 读取行内字段值，字段未识别时返回 nil
func (m ColumnMap) value(row []sheet.Cell, f Field) any {
	idx, ok := m.fields[f]
	if !ok || idx >= len(row) {
		return nil
	}
	return row[idx].Value
}

func buildColumnMap(header []sheet.Cell) ColumnMap {
	m := ColumnMap{fields: make(map[Field]int), Objects: []int{}}
	for idx, cell := range header {
		if f, ok := lookupField(cell.Value); ok {
			m.fields[f] = idx
			continue
		}
		m.Objects = append(m.Objects, idx)
	}
	return m
}
