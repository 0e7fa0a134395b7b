package dtos

import "github.com/init-pkg/trade-disclosure/domain/app"

type EditorOpenReferenceRequest struct {
	Url   string `json:"url" validate:"required,url"`
	Sheet string `json:"sheet"`
}

type EditorOpenTemplateRequest struct {
	Name string `json:"name"`
}

type EditorSelectSheetRequest struct {
	Sheet string `json:"sheet" validate:"required"`
}

type EditCellRequest struct {
	RowID uint64 `json:"rowId" validate:"required"`
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type EditorViewRequest struct {
	SortField string            `json:"sortField"`
	Desc      bool              `json:"desc"`
	Filters   map[string]string `json:"filters"`
}

func (r EditorViewRequest) ToOptions() app.ViewOptions {
	return app.ViewOptions{SortField: r.SortField, Desc: r.Desc, Filters: r.Filters}
}

type EditorDownloadQuery struct {
	FileName string `query:"file_name"`
}

// EditorSaveRequest carries the record key. It may be omitted when the session
// already knows its record id.
type EditorSaveRequest struct {
	InvestorID uint64 `json:"investorId"`
	Quarter    string `json:"quarter"`
	Year       int    `json:"year"`
}

func (r EditorSaveRequest) Key() *app.PortfolioKey {
	if r.InvestorID == 0 && r.Quarter == "" && r.Year == 0 {
		return nil
	}
	return &app.PortfolioKey{InvestorID: r.InvestorID, Quarter: app.Quarter(r.Quarter), Year: r.Year}
}

type EditorValidateQuery struct {
	TemplateName string `query:"template_name"`
}
