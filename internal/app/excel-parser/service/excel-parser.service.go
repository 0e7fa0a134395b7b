package excel_parser_service

import (
	"log/slog"
	"strings"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	bridge_service "github.com/init-pkg/trade-disclosure/internal/app/bridge/service"
)

// minTableCells is how many filled cells a row needs to count as the start of
// the table. Narrower sheets use their own width.
const minTableCells = 3

type ExcelParserService struct {
	codec     app.WorkbookCodec
	grid      app.GridAdapter
	templates app.TemplateService
	log       *slog.Logger
}

var _ app.ExcelParserService = &ExcelParserService{}

func New(codec app.WorkbookCodec, grid app.GridAdapter, templates app.TemplateService, log *slog.Logger) *ExcelParserService {
	return &ExcelParserService{codec, grid, templates, log}
}

func (this *ExcelParserService) Read(data []byte) ([]app.ParsedSheet, errs.Error) {
	this.log.Info("excel parsing started", "bytes", len(data))

	wb, err := this.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	results := make([]app.ParsedSheet, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		results = append(results, this.parseSheet(sheet))
	}

	this.log.Info("excel parsing completed", "sheets", len(results))
	return results, nil
}

func (this *ExcelParserService) parseSheet(sheet app.NamedSheet) app.ParsedSheet {
	start := tableStart(sheet.Rows)

	var title []string
	for _, row := range sheet.Rows[:start] {
		if text := rowText(row); text != "" {
			title = append(title, text)
		}
	}

	table := make(app.Sheet, 0, len(sheet.Rows)-start)
	for _, row := range sheet.Rows[start:] {
		if rowText(row) != "" {
			table = append(table, row)
		}
	}

	grid := this.grid.ToGrid(table)
	res := app.ParsedSheet{
		Name:         sheet.Name,
		HasHeaderRow: len(table) > 0 && this.grid.HasHeaderRow(table),
		TableStart:   start,
		Title:        title,
		Rows:         len(grid.RowData),
		Columns:      len(grid.ColumnDefs),
		Grid:         grid,
	}

	this.log.Debug("parsed sheet",
		"sheet", sheet.Name,
		"tableStart", start,
		"hasHeaderRow", res.HasHeaderRow,
		"rows", res.Rows,
		"columns", res.Columns)
	return res
}

// tableStart returns the first row with enough filled cells to be part of the
// table, skipping title and note rows above it. A sheet with no such row
// starts at 0.
func tableStart(rows app.Sheet) int {
	need := min(minTableCells, rows.MaxCols())
	if need == 0 {
		return 0
	}
	for i, row := range rows {
		filled := 0
		for _, c := range row {
			if !c.IsBlank() {
				filled++
			}
		}
		if filled >= need {
			return i
		}
	}
	return 0
}

// rowText joins the distinct non-blank values of a row, so a merged title
// repeated across its range reads once.
func rowText(row []app.Cell) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		v := strings.TrimSpace(c.String())
		if v == "" || (len(parts) > 0 && parts[len(parts)-1] == v) {
			continue
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

func (this *ExcelParserService) Save(rows app.Sheet, sheetName, fileName string) (*app.Download, errs.Error) {
	if len(rows) == 0 {
		return nil, errs.Validation("没有可保存的数据", map[string]string{"data": "required"})
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = app.DefaultSheetName
	}

	content, err := this.codec.Encode(rows, sheetName)
	if err != nil {
		return nil, err
	}
	name := bridge_service.DownloadName(fileName)
	this.log.Info("excel saved", "fileName", name, "sheet", sheetName, "rows", len(rows))
	return &app.Download{FileName: name, ContentType: app.XlsxContentType, Content: content}, nil
}

func (this *ExcelParserService) Templates() []app.Template {
	return this.templates.List()
}

func (this *ExcelParserService) TemplateFile(name string) (*app.Download, errs.Error) {
	tpl, err := this.templates.Get(name)
	if err != nil {
		return nil, err
	}

	content, err := this.codec.Encode(tpl.Sheet(), app.DefaultSheetName)
	if err != nil {
		return nil, err
	}
	return &app.Download{FileName: tpl.FileName(), ContentType: app.XlsxContentType, Content: content}, nil
}

func (this *ExcelParserService) Validate(templateName string, rows app.Sheet) (*app.ValidationReport, errs.Error) {
	return this.templates.Validate(templateName, rows)
}
