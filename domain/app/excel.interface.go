package app

import "github.com/init-pkg/trade-disclosure/domain/errs"

// ParsedSheet is the read-only preview of one workbook sheet. Title holds the
// text of any rows above TableStart.
type ParsedSheet struct {
	Name         string   `json:"name"`
	HasHeaderRow bool     `json:"hasHeaderRow"`
	TableStart   int      `json:"tableStart"`
	Title        []string `json:"title,omitempty"`
	Rows         int      `json:"rows"`
	Columns      int      `json:"columns"`
	Grid         Grid     `json:"grid"`
}

type ExcelParserService interface {
	Read(data []byte) ([]ParsedSheet, errs.Error)
	Save(rows Sheet, sheetName, fileName string) (*Download, errs.Error)
	Templates() []Template
	TemplateFile(name string) (*Download, errs.Error)
	Validate(templateName string, rows Sheet) (*ValidationReport, errs.Error)
}
