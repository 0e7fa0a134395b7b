package editor_http_handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/dtos"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

type EditorHttpHandler struct {
	service   app.EditorService
	validator *validation.Validator
}

func New(service app.EditorService, validator *validation.Validator) *EditorHttpHandler {
	return &EditorHttpHandler{service, validator}
}

func (this *EditorHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/api/v1/editor")

	app.Post("/", this.open)
	app.Post("/reference", this.openReference)
	app.Post("/portfolio/:pid", this.openPortfolio)
	app.Post("/template", this.openTemplate)

	app.Get("/:id", this.snapshot)
	app.Delete("/:id", this.close)
	app.Put("/:id/file", this.reload)
	app.Put("/:id/sheet", this.selectSheet)
	app.Patch("/:id/cells", this.editCell)
	app.Post("/:id/undo", this.undo)
	app.Post("/:id/redo", this.redo)
	app.Post("/:id/view", this.view)
	app.Get("/:id/data", this.sheet)
	app.Get("/:id/validate", this.validate)
	app.Get("/:id/download", this.download)
	app.Post("/:id/save", this.save)
}

// @Summary Open an editor session from an uploaded spreadsheet
// @Tags editor
// @Accept multipart/form-data
// @Param file formData file true "xlsx file"
// @Param sheet formData string false "preferred sheet"
// @Success 200 {object} server.Response[app.EditorSnapshot]
// @Router /editor [post]
func (this *EditorHttpHandler) open(c fiber.Ctx) error {
	file, err := server.FormFile(c, "file")
	if err != nil {
		return err
	}

	snap, err := this.service.Open(c.Context(), app.OpenRequest{
		FileName:       file.Name,
		Data:           file.Content,
		PreferredSheet: c.FormValue("sheet"),
	})
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

// @Summary Open an editor session from a spreadsheet url
// @Tags editor
// @Param body body dtos.EditorOpenReferenceRequest true "reference"
// @Success 200 {object} server.Response[app.EditorSnapshot]
// @Router /editor/reference [post]
func (this *EditorHttpHandler) openReference(c fiber.Ctx) error {
	var req dtos.EditorOpenReferenceRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}
	if err := this.validator.Struct(req); err != nil {
		return err
	}

	snap, err := this.service.OpenReference(c.Context(), req.Url, req.Sheet)
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

func (this *EditorHttpHandler) openPortfolio(c fiber.Ctx) error {
	id, err := server.ParamID(c, "pid")
	if err != nil {
		return err
	}

	snap, err := this.service.OpenPortfolio(c.Context(), id)
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

func (this *EditorHttpHandler) openTemplate(c fiber.Ctx) error {
	var req dtos.EditorOpenTemplateRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}

	snap, err := this.service.OpenTemplate(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

func (this *EditorHttpHandler) snapshot(c fiber.Ctx) error {
	snap, err := this.service.Snapshot(c.Params("id"))
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

func (this *EditorHttpHandler) close(c fiber.Ctx) error {
	if err := this.service.Close(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (this *EditorHttpHandler) reload(c fiber.Ctx) error {
	file, err := server.FormFile(c, "file")
	if err != nil {
		return err
	}

	snap, err := this.service.Reload(c.Context(), c.Params("id"), app.OpenRequest{
		FileName:       file.Name,
		Data:           file.Content,
		PreferredSheet: c.FormValue("sheet"),
	})
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

func (this *EditorHttpHandler) selectSheet(c fiber.Ctx) error {
	var req dtos.EditorSelectSheetRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}
	if err := this.validator.Struct(req); err != nil {
		return err
	}

	snap, err := this.service.SelectSheet(c.Params("id"), req.Sheet)
	if err != nil {
		return err
	}
	return server.OK(c, snap)
}

// @Summary Edit a single cell
// @Tags editor
// @Param id path string true "session id"
// @Param body body dtos.EditCellRequest true "edit"
// @Success 200 {object} server.Response[app.CellEdit]
// @Router /editor/{id}/cells [patch]
func (this *EditorHttpHandler) editCell(c fiber.Ctx) error {
	var req dtos.EditCellRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}
	if err := this.validator.Struct(req); err != nil {
		return err
	}

	edit, err := this.service.EditCell(c.Params("id"), req.RowID, req.Field, req.Value)
	if err != nil {
		return err
	}
	return server.OK(c, edit)
}

func (this *EditorHttpHandler) undo(c fiber.Ctx) error {
	edit, err := this.service.Undo(c.Params("id"))
	if err != nil {
		return err
	}
	return server.OK(c, edit)
}

func (this *EditorHttpHandler) redo(c fiber.Ctx) error {
	edit, err := this.service.Redo(c.Params("id"))
	if err != nil {
		return err
	}
	return server.OK(c, edit)
}

func (this *EditorHttpHandler) view(c fiber.Ctx) error {
	var req dtos.EditorViewRequest
	if err := c.Bind().Body(&req); err != nil {
		return server.BindError(err)
	}

	rows, err := this.service.View(c.Params("id"), req.ToOptions())
	if err != nil {
		return err
	}
	return server.OK(c, rows)
}

func (this *EditorHttpHandler) sheet(c fiber.Ctx) error {
	rows, err := this.service.Sheet(c.Params("id"))
	if err != nil {
		return err
	}
	return server.OK(c, rows)
}

func (this *EditorHttpHandler) validate(c fiber.Ctx) error {
	var q dtos.EditorValidateQuery
	if err := c.Bind().Query(&q); err != nil {
		return server.BindError(err)
	}

	report, err := this.service.Validate(c.Params("id"), q.TemplateName)
	if err != nil {
		return err
	}
	return server.OK(c, report)
}

// @Summary Download the edited sheet
// @Tags editor
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "session id"
// @Param file_name query string false "download name"
// @Router /editor/{id}/download [get]
func (this *EditorHttpHandler) download(c fiber.Ctx) error {
	var q dtos.EditorDownloadQuery
	if err := c.Bind().Query(&q); err != nil {
		return server.BindError(err)
	}

	d, err := this.service.Download(c.Context(), c.Params("id"), q.FileName)
	if err != nil {
		return err
	}
	return server.SendXlsx(c, d)
}

// @Summary Save the edited sheet as a portfolio record
// @Tags editor
// @Param id path string true "session id"
// @Param body body dtos.EditorSaveRequest false "record key, omitted for updates"
// @Success 200 {object} server.Response[app.SaveResult]
// @Router /editor/{id}/save [post]
func (this *EditorHttpHandler) save(c fiber.Ctx) error {
	var req dtos.EditorSaveRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return server.BindError(err)
		}
	}

	res, err := this.service.Save(c.Context(), c.Params("id"), server.SessionFrom(c).Credentials(), req.Key())
	if err != nil {
		return err
	}
	return c.JSON(server.Response[*app.SaveResult]{Success: true, Message: res.Message, Data: res})
}
