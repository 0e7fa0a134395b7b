package workbook_service

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/config"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Dimensions larger than this are ignored and the sheet is sized by its cells.
const maxDimensionCells = 1 << 20

type WorkbookService struct {
	log        *slog.Logger
	fillMerged bool
}

var _ app.WorkbookCodec = &WorkbookService{}

func New(cfg *config.Config, log *slog.Logger) *WorkbookService {
	return &WorkbookService{log: log, fillMerged: cfg.Workbook.FillMerged}
}

func (this *WorkbookService) Decode(data []byte) (*app.Workbook, errs.Error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Decode(err)
	}
	defer f.Close()

	wb := &app.Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := this.readSheet(f, name)
		if err != nil {
			return nil, errs.Decode(fmt.Errorf("sheet %q: %w", name, err))
		}
		wb.Sheets = append(wb.Sheets, app.NamedSheet{Name: name, Rows: rows})
	}

	if len(wb.Sheets) == 0 {
		return nil, errs.Decode(fmt.Errorf("workbook has no sheets"))
	}

	this.log.Debug("workbook decoded", "sheets", len(wb.Sheets))
	return wb, nil
}

func (this *WorkbookService) readSheet(f *excelize.File, sheet string) (app.Sheet, error) {
	display, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	width, height := usedRange(f, sheet)
	for _, row := range display {
		width = max(width, len(row))
	}
	height = max(height, len(display))

	out := make(app.Sheet, height)
	for r := range out {
		out[r] = make([]app.Cell, width)
		if r >= len(display) {
			continue
		}
		for c, shown := range display[r] {
			if shown == "" {
				continue
			}
			out[r][c] = typedCell(f, sheet, r, c, shown, rawAt(raw, r, c))
		}
	}

	if this.fillMerged {
		if err := fillMergedRanges(f, sheet, out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// usedRange reads the width and height recorded in the sheet dimension. A
// single-cell reference carries no range and yields zero.
func usedRange(f *excelize.File, sheet string) (int, int) {
	ref, err := f.GetSheetDimension(sheet)
	if err != nil {
		return 0, 0
	}
	_, end, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, 0
	}
	cols, rows, err := excelize.CellNameToCoordinates(end)
	if err != nil || cols*rows > maxDimensionCells {
		return 0, 0
	}
	return cols, rows
}

// typedCell keeps a numeric cell as a Number when its displayed form is a plain
// number. Dates, percentages and currency formats stay as displayed text.
func typedCell(f *excelize.File, sheet string, r, c int, shown, raw string) app.Cell {
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return app.Text(shown)
	}
	kind, err := f.GetCellType(sheet, axis)
	if err != nil {
		return app.Text(shown)
	}

	switch kind {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if _, err := decimal.NewFromString(shown); err != nil {
			return app.Text(shown)
		}
		if d, err := decimal.NewFromString(raw); err == nil {
			return app.Number(d)
		}
		return app.ParseCell(shown)
	default:
		return app.Text(shown)
	}
}

func rawAt(rows [][]string, r, c int) string {
	if r < len(rows) && c < len(rows[r]) {
		return rows[r][c]
	}
	return ""
}

// fillMergedRanges copies the top-left value of every merged range into the
// covered cells, growing short rows as needed.
func fillMergedRanges(f *excelize.File, sheet string, rows app.Sheet) error {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}

	for _, merge := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}

		r0, c0 := startRow-1, startCol-1
		if r0 >= len(rows) || c0 >= len(rows[r0]) {
			continue
		}
		val := rows[r0][c0]

		for r := r0; r <= endRow-1 && r < len(rows); r++ {
			for c := c0; c <= endCol-1; c++ {
				for len(rows[r]) <= c {
					rows[r] = append(rows[r], app.Blank())
				}
				rows[r][c] = val
			}
		}
	}

	return nil
}
