package grid_service

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/init-pkg/trade-disclosure/domain/app"
)

// GridService projects sheets into the row/column shape the grid widget edits.
type GridService struct {
	nextRowID atomic.Uint64
}

var _ app.GridAdapter = &GridService{}

func New() *GridService {
	return &GridService{}
}

// HasHeaderRow reports whether row 0 is a full row of non-blank text cells.
func (this *GridService) HasHeaderRow(sheet app.Sheet) bool {
	width := sheet.MaxCols()
	if width == 0 || len(sheet[0]) < width {
		return false
	}
	for _, c := range sheet[0][:width] {
		if !c.IsText() || strings.TrimSpace(c.String()) == "" {
			return false
		}
	}
	return true
}

func (this *GridService) ToGrid(sheet app.Sheet) app.Grid {
	width := sheet.MaxCols()
	if width == 0 {
		return app.Grid{RowData: []*app.TabularRow{}, ColumnDefs: []app.ColumnDefinition{}}
	}

	header := this.HasHeaderRow(sheet)

	cols := make([]app.ColumnDefinition, width)
	for i := range cols {
		name := fmt.Sprintf("Column %d", i+1)
		if header {
			name = sheet[0][i].String()
		}
		cols[i] = app.ColumnDefinition{
			Field:      app.ColumnField(i),
			HeaderName: name,
			Editable:   true,
			Sortable:   true,
			Filter:     true,
		}
	}

	start := 0
	if header {
		start = 1
	}

	rows := make([]*app.TabularRow, 0, len(sheet)-start)
	for _, src := range sheet[start:] {
		row := &app.TabularRow{ID: this.nextRowID.Add(1), Cells: make(map[string]app.Cell, width)}
		for i := 0; i < width; i++ {
			if i < len(src) {
				row.Cells[cols[i].Field] = src[i]
			} else {
				row.Cells[cols[i].Field] = app.Blank()
			}
		}
		rows = append(rows, row)
	}

	return app.Grid{RowData: rows, ColumnDefs: cols}
}

// FromGrid always emits the column headers as row 0, so a sheet that had no
// header row gains a synthesized one.
func (this *GridService) FromGrid(rows []*app.TabularRow, columns []app.ColumnDefinition) app.Sheet {
	out := make(app.Sheet, 0, len(rows)+1)

	header := make([]app.Cell, len(columns))
	for i, col := range columns {
		header[i] = app.Text(col.HeaderName)
	}
	out = append(out, header)

	for _, row := range rows {
		line := make([]app.Cell, len(columns))
		for i, col := range columns {
			line[i] = row.Get(col.Field)
		}
		out = append(out, line)
	}

	return out
}
