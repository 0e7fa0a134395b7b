package app

import (
	"context"

	"github.com/init-pkg/trade-disclosure/domain/errs"
)

const HistoryLimit = 20

type CellEdit struct {
	RowID uint64 `json:"rowId"`
	Field string `json:"field"`
	Old   Cell   `json:"old"`
	New   Cell   `json:"new"`
}

type ViewOptions struct {
	SortField string            `json:"sortField"`
	Desc      bool              `json:"desc"`
	Filters   map[string]string `json:"filters"`
}

type EditorSnapshot struct {
	ID           string        `json:"id"`
	FileName     string        `json:"fileName"`
	SheetNames   []string      `json:"sheetNames"`
	CurrentSheet string        `json:"currentSheet"`
	HasHeaderRow bool          `json:"hasHeaderRow"`
	Grid         Grid          `json:"grid"`
	Dirty        bool          `json:"dirty"`
	Busy         bool          `json:"busy"`
	CanUndo      bool          `json:"canUndo"`
	CanRedo      bool          `json:"canRedo"`
	PortfolioID  *uint64       `json:"portfolioId,omitempty"`
	Key          *PortfolioKey `json:"key,omitempty"`
}

type OpenRequest struct {
	FileName       string
	Data           []byte
	PreferredSheet string
}

type EditorService interface {
	Open(ctx context.Context, req OpenRequest) (*EditorSnapshot, errs.Error)
	OpenReference(ctx context.Context, ref string, preferredSheet string) (*EditorSnapshot, errs.Error)
	OpenPortfolio(ctx context.Context, id uint64) (*EditorSnapshot, errs.Error)
	OpenTemplate(ctx context.Context, name string) (*EditorSnapshot, errs.Error)
	Snapshot(id string) (*EditorSnapshot, errs.Error)
	Reload(ctx context.Context, id string, req OpenRequest) (*EditorSnapshot, errs.Error)
	SelectSheet(id string, name string) (*EditorSnapshot, errs.Error)
	EditCell(id string, rowID uint64, field string, value string) (*CellEdit, errs.Error)
	Undo(id string) (*CellEdit, errs.Error)
	Redo(id string) (*CellEdit, errs.Error)
	View(id string, opts ViewOptions) ([]*TabularRow, errs.Error)
	Sheet(id string) (Sheet, errs.Error)
	Validate(id string, template string) (*ValidationReport, errs.Error)
	Download(ctx context.Context, id string, fileName string) (*Download, errs.Error)
	Save(ctx context.Context, id string, creds Credentials, key *PortfolioKey) (*SaveResult, errs.Error)
	Close(id string) errs.Error
}
