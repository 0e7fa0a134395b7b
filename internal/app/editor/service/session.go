package editor_service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

// session is one open editor. mu guards everything except busy and lastUsed.
type session struct {
	mu sync.Mutex

	id        string
	fileName  string
	workbook  *app.Workbook
	current   string
	hasHeader bool

	columns []app.ColumnDefinition
	// rows is the canonical store in sheet order; views never reorder it.
	rows  []*app.TabularRow
	index map[uint64]*app.TabularRow

	// history[:cursor] is applied, history[cursor:] is the redo tail.
	history []app.CellEdit
	cursor  int

	dirty   bool
	version uint64

	portfolioID *uint64
	key         *app.PortfolioKey

	busy     atomic.Bool
	lastUsed atomic.Int64
}

func (s *session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// load replaces the grid contents and resets history.
func (s *session) load(grid app.Grid, hasHeader bool) {
	s.columns = grid.ColumnDefs
	s.rows = grid.RowData
	s.index = make(map[uint64]*app.TabularRow, len(grid.RowData))
	for _, r := range grid.RowData {
		s.index[r.ID] = r
	}
	s.hasHeader = hasHeader
	s.history = nil
	s.cursor = 0
	s.dirty = false
	s.version++
}

func (s *session) hasField(field string) bool {
	for _, c := range s.columns {
		if c.Field == field {
			return true
		}
	}
	return false
}

func (s *session) edit(rowID uint64, field string, value string) (*app.CellEdit, errs.Error) {
	row, ok := s.index[rowID]
	if !ok {
		return nil, errs.Newf(errs.KindNotFound, "行不存在: %d", rowID)
	}
	if !s.hasField(field) {
		return nil, errs.Validation("列不存在", map[string]string{"field": field})
	}

	old := row.Get(field)
	next := app.Text(value)
	if old.IsNumber() {
		next = app.ParseCell(value)
	}

	edit := app.CellEdit{RowID: rowID, Field: field, Old: old, New: next}
	if old.Equal(next) {
		return &edit, nil
	}

	row.Cells[field] = next
	s.push(edit)
	s.dirty = true
	s.version++
	return &edit, nil
}

func (s *session) push(edit app.CellEdit) {
	s.history = append(s.history[:s.cursor], edit)
	if over := len(s.history) - app.HistoryLimit; over > 0 {
		s.history = append([]app.CellEdit(nil), s.history[over:]...)
	}
	s.cursor = len(s.history)
}

func (s *session) undo() (*app.CellEdit, errs.Error) {
	if s.cursor == 0 {
		return nil, errs.New(errs.KindConflict, "没有可撤销的操作")
	}
	s.cursor--
	edit := s.history[s.cursor]
	s.index[edit.RowID].Cells[edit.Field] = edit.Old
	s.dirty = true
	s.version++
	return &edit, nil
}

func (s *session) redo() (*app.CellEdit, errs.Error) {
	if s.cursor == len(s.history) {
		return nil, errs.New(errs.KindConflict, "没有可重做的操作")
	}
	edit := s.history[s.cursor]
	s.cursor++
	s.index[edit.RowID].Cells[edit.Field] = edit.New
	s.dirty = true
	s.version++
	return &edit, nil
}

func (s *session) snapshot() *app.EditorSnapshot {
	rows := make([]*app.TabularRow, len(s.rows))
	for i, r := range s.rows {
		rows[i] = r.Clone()
	}
	cols := append([]app.ColumnDefinition(nil), s.columns...)

	var portfolioID *uint64
	if s.portfolioID != nil {
		id := *s.portfolioID
		portfolioID = &id
	}
	var key *app.PortfolioKey
	if s.key != nil {
		k := *s.key
		key = &k
	}

	return &app.EditorSnapshot{
		ID:           s.id,
		FileName:     s.fileName,
		SheetNames:   s.workbook.SheetNames(),
		CurrentSheet: s.current,
		HasHeaderRow: s.hasHeader,
		Grid:         app.Grid{RowData: rows, ColumnDefs: cols},
		Dirty:        s.dirty,
		Busy:         s.busy.Load(),
		CanUndo:      s.cursor > 0,
		CanRedo:      s.cursor < len(s.history),
		PortfolioID:  portfolioID,
		Key:          key,
	}
}
