package excel_parser_http_handler

import (
	"net/url"

	"github.com/gofiber/fiber/v3"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/dtos"
	"github.com/init-pkg/trade-disclosure/internal/server"
)

type ExcelParserHttpHandler struct {
	service app.ExcelParserService
}

func New(service app.ExcelParserService) *ExcelParserHttpHandler {
	return &ExcelParserHttpHandler{service}
}

func (this *ExcelParserHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/api/v1/excel")

	app.Post("/read", this.read)
	app.Post("/save", this.save)
	app.Get("/templates", this.templates)
	app.Get("/templates/:name/download", this.templateDownload)
	app.Post("/validate", this.validate)
}

// @Summary Parse every sheet of an uploaded workbook into grid form
// @Tags excel
// @Accept multipart/form-data
// @Param file formData file true "xlsx file"
// @Success 200 {object} server.Response[[]app.ParsedSheet]
// @Router /excel/read [post]
func (this *ExcelParserHttpHandler) read(c fiber.Ctx) error {
	file, err := server.FormFile(c, "file")
	if err != nil {
		return err
	}

	sheets, err := this.service.Read(file.Content)
	if err != nil {
		return err
	}
	return server.OK(c, sheets)
}

// @Summary Encode rows as an xlsx download
// @Tags excel
// @Param body body dtos.ExcelSaveRequest true "rows"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /excel/save [post]
func (this *ExcelParserHttpHandler) save(c fiber.Ctx) error {
	var req dtos.ExcelSaveRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}

	d, err := this.service.Save(req.Data, req.SheetName, req.FileName)
	if err != nil {
		return err
	}
	return server.SendXlsx(c, d)
}

// @Summary List spreadsheet templates
// @Tags excel
// @Success 200 {object} server.Response[[]app.Template]
// @Router /excel/templates [get]
func (this *ExcelParserHttpHandler) templates(c fiber.Ctx) error {
	return server.OK(c, this.service.Templates())
}

// @Summary Download a template as xlsx
// @Tags excel
// @Param name path string true "template name"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /excel/templates/{name}/download [get]
func (this *ExcelParserHttpHandler) templateDownload(c fiber.Ctx) error {
	name, decodeErr := url.PathUnescape(c.Params("name"))
	if decodeErr != nil {
		return server.BindError(decodeErr)
	}

	d, err := this.service.TemplateFile(name)
	if err != nil {
		return err
	}
	return server.SendXlsx(c, d)
}

// @Summary Validate rows against a template
// @Tags excel
// @Param template_name query string false "template name"
// @Param body body dtos.ExcelValidateRequest true "rows"
// @Success 200 {object} server.Response[app.ValidationReport]
// @Router /excel/validate [post]
func (this *ExcelParserHttpHandler) validate(c fiber.Ctx) error {
	var q dtos.ExcelValidateQuery
	if err := c.Bind().Query(&q); err != nil {
		return server.BindError(err)
	}
	var req dtos.ExcelValidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}

	report, err := this.service.Validate(q.TemplateName, req.Data)
	if err != nil {
		return err
	}
	return server.OK(c, report)
}
