package dtos

import "github.com/init-pkg/trade-disclosure/domain/app"

type ExcelSaveRequest struct {
	Data      app.Sheet `json:"data"`
	SheetName string    `json:"sheet_name"`
	FileName  string    `json:"file_name"`
}

type ExcelValidateRequest struct {
	Data app.Sheet `json:"data"`
}

type ExcelValidateQuery struct {
	TemplateName string `query:"template_name"`
}
