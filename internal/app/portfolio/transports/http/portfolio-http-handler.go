package portfolio_http_handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/domain/dtos"
	"github.com/init-pkg/trade-disclosure/internal/server"
)

type PortfolioHttpHandler struct {
	service app.PortfolioService
	codec   app.WorkbookCodec
}

func New(service app.PortfolioService, codec app.WorkbookCodec) *PortfolioHttpHandler {
	return &PortfolioHttpHandler{service, codec}
}

func (this *PortfolioHttpHandler) Register(mainApp *fiber.App) {
	var app = mainApp.Group("/api/v1/investment-portfolios")

	app.Get("/", this.list)
	app.Get("/stats/overview", this.stats)
	app.Get("/search", this.search)
	app.Post("/excel", this.create)
	app.Get("/:id", this.get)
	app.Patch("/:id", this.review)
	app.Delete("/:id", this.delete)
	app.Get("/:id/excel", this.sheet)
	app.Put("/:id/excel", this.update)
	app.Get("/:id/excel/download", this.download)
}

type saveResponse struct {
	Success bool `json:"success"`
	*app.SaveResult
}

// @Summary Create a portfolio sheet record
// @Tags investment-portfolios
// @Param investor_id query int true "investor id"
// @Param quarter query string true "Q1..Q4"
// @Param year query int true "2000..2100"
// @Param body body app.SheetPayload true "sheet"
// @Success 200 {object} saveResponse
// @Router /investment-portfolios/excel [post]
func (this *PortfolioHttpHandler) create(c fiber.Ctx) error {
	var key app.PortfolioKey
	if err := c.Bind().Query(&key); err != nil {
		return server.BindError(err)
	}
	var payload app.SheetPayload
	if err := c.Bind().Body(&payload); err != nil {
		return server.BindError(err)
	}

	res, err := this.service.Create(c.Context(), server.SessionFrom(c).Credentials(), key, payload)
	if err != nil {
		return err
	}
	return c.JSON(saveResponse{true, res})
}

// @Summary Replace the sheet of a portfolio record
// @Tags investment-portfolios
// @Param id path int true "portfolio id"
// @Param body body app.SheetPayload true "sheet"
// @Success 200 {object} saveResponse
// @Router /investment-portfolios/{id}/excel [put]
func (this *PortfolioHttpHandler) update(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	var payload app.SheetPayload
	if err := c.Bind().Body(&payload); err != nil {
		return server.BindError(err)
	}

	res, err := this.service.Update(c.Context(), server.SessionFrom(c).Credentials(), id, payload)
	if err != nil {
		return err
	}
	return c.JSON(saveResponse{true, res})
}

func (this *PortfolioHttpHandler) list(c fiber.Ctx) error {
	var req dtos.PortfolioListRequest
	if err := c.Bind().Query(&req); err != nil {
		return server.BindError(err)
	}

	page, err := this.service.List(c.Context(), req.ToFilter())
	if err != nil {
		return err
	}
	return server.OK(c, page)
}

func (this *PortfolioHttpHandler) stats(c fiber.Ctx) error {
	stats, err := this.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return server.OK(c, stats)
}

func (this *PortfolioHttpHandler) search(c fiber.Ctx) error {
	var req dtos.PortfolioSearchRequest
	if err := c.Bind().Query(&req); err != nil {
		return server.BindError(err)
	}

	hits, err := this.service.Search(c.Context(), req.Query, req.Limit)
	if err != nil {
		return err
	}
	return server.OK(c, hits)
}

func (this *PortfolioHttpHandler) get(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := this.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return server.OK(c, p)
}

func (this *PortfolioHttpHandler) review(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	var review app.PortfolioReview
	if err := c.Bind().Body(&review); err != nil {
		return server.BindError(err)
	}

	p, err := this.service.Review(c.Context(), id, review)
	if err != nil {
		return err
	}
	return server.OK(c, p)
}

func (this *PortfolioHttpHandler) delete(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := this.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "投资组合已删除"})
}

func (this *PortfolioHttpHandler) sheet(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	payload, err := this.service.Sheet(c.Context(), id)
	if err != nil {
		return err
	}
	return server.OK(c, payload)
}

func (this *PortfolioHttpHandler) download(c fiber.Ctx) error {
	id, err := server.ParamID(c, "id")
	if err != nil {
		return err
	}
	payload, err := this.service.Sheet(c.Context(), id)
	if err != nil {
		return err
	}

	data, err := this.codec.Encode(payload.Data, app.DefaultSheetName)
	if err != nil {
		return err
	}

	name := payload.FileName
	if name == "" {
		name = app.DefaultDownloadName
	}
	return server.SendXlsx(c, &app.Download{FileName: name, ContentType: server.XlsxMime, Content: data})
}
