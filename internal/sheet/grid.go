// Package sheet 提供工作表的内存网格表示以及 xlsx 读取
package sheet

// Worksheet 可按行列随机访问的工作表，行列均从 1 开始
type Worksheet interface {
	Value(row, col int) any
	MaxRow() int
	MaxColumn() int
}

// Cell 单元格及其坐标
type Cell struct {
	Row    int
	Column int
	Value  any
}

// Grid 工作表的内存实现，取值为 nil/string/float64/bool/time.Time
type Grid struct {
	rows   [][]any
	maxCol int
}

// NewGrid 由二维切片构建网格，rows[0] 对应第 1 行
func NewGrid(rows [][]any) *Grid {
	g := &Grid{rows: rows}
	for _, r := range rows {
		if len(r) > g.maxCol {
			g.maxCol = len(r)
		}
	}
	return g
}

func (g *Grid) Value(row, col int) any {
	if row < 1 || row > len(g.rows) {
		return nil
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return nil
	}
	return r[col-1]
}

func (g *Grid) MaxRow() int { return len(g.rows) }

func (g *Grid) MaxColumn() int { return g.maxCol }

// RowCells 读取一行 [minCol, maxCol] 区间内的单元格，maxCol 为 0 表示到最后一列。
// 返回长度固定为区间宽度，空单元格的 Value 为 nil。
func RowCells(ws Worksheet, row, minCol, maxCol int) []Cell {
	if maxCol <= 0 {
		maxCol = ws.MaxColumn()
	}
	if maxCol < minCol {
		return nil
	}
	cells := make([]Cell, 0, maxCol-minCol+1)
	for col := minCol; col <= maxCol; col++ {
		cells = append(cells, Cell{Row: row, Column: col, Value: ws.Value(row, col)})
	}
	return cells
}
