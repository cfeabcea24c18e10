package sheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidWorkbook = errors.New("invalid xlsx workbook")
	ErrNoActiveSheet   = errors.New("workbook has no active sheet")
)

// builtinDateFormats 内置数字格式中表示日期（含日期时间）的编号
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// 自定义格式里的引号文本、方括号段（颜色/区域）和转义字符不参与日期判断
var numFmtLiterals = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// Load 读取 xlsx 并返回活动工作表的网格。只读取缓存值，不计算公式。
func Load(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		return nil, ErrNoActiveSheet
	}
	return loadSheet(f, name)
}

// loadSheet 读取指定工作表
func loadSheet(f *excelize.File, name string) (*Grid, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("读取工作表%s失败: %w", name, err)
	}

	l := &loader{f: f, sheet: name, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		l.date1904 = *props.Date1904
	}

	rows := make([][]any, len(raw))
	for r, cols := range raw {
		row := make([]any, len(cols))
		for c, text := range cols {
			if text == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			v, err := l.typed(ref, text)
			if err != nil {
				return nil, fmt.Errorf("单元格%s解析失败: %w", ref, err)
			}
			row[c] = v
		}
		rows[r] = row
	}
	return NewGrid(rows), nil
}

type loader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

// typed 按单元格类型把原始文本转换为 string/float64/bool/time.Time
func (l *loader) typed(ref, text string) (any, error) {
	typ, err := l.f.GetCellType(l.sheet, ref)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return text == "1" || strings.EqualFold(text, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return text, nil
	case excelize.CellTypeDate:
		t, err := cast.ToTimeE(text)
		if err != nil {
			return text, nil
		}
		return t, nil
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text, nil
	}
	isDate, err := l.isDateStyled(ref)
	if err != nil {
		return nil, err
	}
	if !isDate {
		return n, nil
	}
	return excelize.ExcelDateToTime(n, l.date1904)
}

func (l *loader) isDateStyled(ref string) (bool, error) {
	styleID, err := l.f.GetCellStyle(l.sheet, ref)
	if err != nil {
		return false, err
	}
	if isDate, ok := l.dateStyles[styleID]; ok {
		return isDate, nil
	}
	style, err := l.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := builtinDateFormats[style.NumFmt]
	if !isDate && style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	l.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateFormatCode 自定义格式包含年或日占位符即视为日期（单独的 m 可能是分钟）
func isDateFormatCode(code string) bool {
	code = strings.ToLower(numFmtLiterals.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "yd")
}
