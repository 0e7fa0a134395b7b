package upload_http_handler

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/dtos"
	"github.com/init-pkg/trade-disclosure/domain/errs"
	"github.com/init-pkg/trade-disclosure/internal/server"
)

const personField = "relatedPersonInfo"

type UploadHttpHandler struct {
	service app.UploadService
}

func New(service app.UploadService) *UploadHttpHandler {
	return &UploadHttpHandler{service}
}

func (this *UploadHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/api/v1")

	app.Post("/upload", this.upload)
	app.Get("/upload/status/:id", this.status)
	app.Get("/upload/history", this.history)
	app.Get("/download/:name", this.download)
}

// @Summary Upload a trade screenshot or statement for recognition
// @Tags upload
// @Accept multipart/form-data
// @Param file formData file true "image or pdf, at most 10MB"
// @Param relatedPersonInfo formData string true "related person json"
// @Success 200 {object} app.UploadResult
// @Router /upload [post]
func (this *UploadHttpHandler) upload(c fiber.Ctx) error {
	file, err := server.FormFile(c, "file")
	if err != nil {
		return err
	}

	person, err := parsePerson(c.FormValue(personField))
	if err != nil {
		return err
	}

	res, err := this.service.Process(c.Context(), app.UploadSubmission{File: file, Person: person})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func parsePerson(raw string) (app.RelatedPersonInfo, errs.Error) {
	var person app.RelatedPersonInfo
	if strings.TrimSpace(raw) == "" {
		return person, errs.Validation("请填写相关人员信息", map[string]string{personField: "required"})
	}
	if err := json.Unmarshal([]byte(raw), &person); err != nil {
		return person, errs.WrapAppError(err, &errs.ErrorOpts{
			Kind:    errs.KindValidation,
			Message: "相关人员信息格式错误",
			Fields:  map[string]string{personField: "invalid json"},
		})
	}
	return person, nil
}

// @Summary Upload processing status
// @Tags upload
// @Param id path string true "upload id"
// @Success 200 {object} server.Response[app.UploadStatus]
// @Router /upload/status/{id} [get]
func (this *UploadHttpHandler) status(c fiber.Ctx) error {
	status, err := this.service.Status(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return server.OK(c, status)
}

// @Summary Recent uploads, newest first
// @Tags upload
// @Param limit query int false "page size, default 10"
// @Param offset query int false "offset"
// @Success 200 {object} server.Response[app.UploadHistory]
// @Router /upload/history [get]
func (this *UploadHttpHandler) history(c fiber.Ctx) error {
	var q dtos.UploadHistoryQuery
	if err := c.Bind().Query(&q); err != nil {
		return server.BindError(err)
	}

	hist, err := this.service.History(c.Context(), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	return server.OK(c, hist)
}

// @Summary Download a generated spreadsheet
// @Tags upload
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param name path string true "file name"
// @Success 200 {file} file
// @Router /download/{name} [get]
func (this *UploadHttpHandler) download(c fiber.Ctx) error {
	name, decodeErr := url.PathUnescape(c.Params("name"))
	if decodeErr != nil {
		return server.BindError(decodeErr)
	}

	content, err := this.service.Spreadsheet(c.Context(), name)
	if err != nil {
		return err
	}
	return server.SendXlsx(c, &app.Download{FileName: name, Content: content})
}
