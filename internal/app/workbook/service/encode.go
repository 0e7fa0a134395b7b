package workbook_service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 50

// Encode writes rows as a single-sheet xlsx. Ragged rows are blank-padded to the
// widest row.
func (this *WorkbookService) Encode(rows app.Sheet, sheetName string) ([]byte, errs.Error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sanitizeSheetName(sheetName)
	if name != app.DefaultSheetName {
		if err := f.SetSheetName(app.DefaultSheetName, name); err != nil {
			return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
		}
	}

	if err := writeRows(f, name, rows.Padded()); err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return buf.Bytes(), nil
}

// EncodeWorkbook writes every sheet with a styled header row and auto-sized columns.
func (this *WorkbookService) EncodeWorkbook(wb *app.Workbook) ([]byte, errs.Error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return this.Encode(nil, app.DefaultSheetName)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}

	used := map[string]struct{}{}
	for i, sheet := range wb.Sheets {
		name := uniqueSheetName(sanitizeSheetName(sheet.Name), used)

		if i == 0 {
			if name != app.DefaultSheetName {
				if err := f.SetSheetName(app.DefaultSheetName, name); err != nil {
					return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
				}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
		}

		rows := sheet.Rows.Padded()
		if err := writeRows(f, name, rows); err != nil {
			return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
		}
		if err := styleSheet(f, name, rows, headerStyle); err != nil {
			return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.WrapAppError(err, &errs.ErrorOpts{})
	}
	return buf.Bytes(), nil
}

// writeRows stores the non-blank cells and records the full padded range as the
// sheet dimension so trailing blank rows and columns survive a decode.
func writeRows(f *excelize.File, sheet string, rows app.Sheet) error {
	if width := rows.MaxCols(); len(rows) > 0 && width > 0 {
		last, err := excelize.CoordinatesToCellName(width, len(rows))
		if err != nil {
			return err
		}
		if err := f.SetSheetDimension(sheet, "A1:"+last); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, cell := range row {
			if cell.IsBlank() {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if cell.IsNumber() {
				// decimal text goes in unescaped so the cell keeps full precision
				err = f.SetCellDefault(sheet, axis, cell.Decimal().String())
			} else {
				err = f.SetCellStr(sheet, axis, cell.String())
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func styleSheet(f *excelize.File, sheet string, rows app.Sheet, headerStyle int) error {
	width := rows.MaxCols()
	if len(rows) == 0 || width == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for c := 0; c < width; c++ {
		longest := 0
		for _, row := range rows {
			if n := utf8.RuneCountInString(row[c].String()); n > longest {
				longest = n
			}
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(longest+2, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeSheetName maps any input to a name excelize accepts.
func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if utf8.RuneCountInString(name) > 31 {
		name = string([]rune(name)[:31])
	}
	if name == "" {
		return app.DefaultSheetName
	}
	return name
}

func uniqueSheetName(name string, used map[string]struct{}) string {
	candidate := name
	for i := 2; ; i++ {
		key := strings.ToLower(candidate)
		if _, ok := used[key]; !ok {
			used[key] = struct{}{}
			return candidate
		}
		suffix := fmt.Sprintf(" (%d)", i)
		base := []rune(name)
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = string(base) + suffix
	}
}
