package exports

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

type sheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// writeWorkbook renders specs in order, one sheet each. The default sheet
// is renamed to the first title so the workbook never carries an empty
// "Sheet1".
func writeWorkbook(w io.Writer, specs []sheetSpec) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, s := range specs {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return err
		}
		if err := fillSheet(f, s, bold); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Title, err)
		}
	}
	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func fillSheet(f *excelize.File, s sheetSpec, bold int) error {
	widths := make([]int, len(s.Header))
	for i, h := range s.Header {
		if err := f.SetCellStr(s.Title, cell(i, 1), h); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	last := colName(len(s.Header))
	if err := f.SetCellStyle(s.Title, "A1", last+"1", bold); err != nil {
		return err
	}

	for r, row := range s.Rows {
		for i, v := range row {
			if err := f.SetCellStr(s.Title, cell(i, r+2), v); err != nil {
				return err
			}
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
	}

	if err := f.AutoFilter(s.Title, fmt.Sprintf("A1:%s%d", last, len(s.Rows)+1), nil); err != nil {
		return err
	}
	for i, n := range widths {
		col := colName(i + 1)
		if err := f.SetColWidth(s.Title, col, col, min(max(float64(n)*1.1, 12), 40)); err != nil {
			return err
		}
	}
	return f.SetPanes(s.Title, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func cell(col0, row int) string {
	return fmt.Sprintf("%s%d", colName(col0+1), row)
}

// colName converts a 1-based column index to its letters: 1 → A, 27 → AA.
func colName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
