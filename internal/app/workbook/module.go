package workbook_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	workbook_service "github.com/init-pkg/trade-disclosure/internal/app/workbook/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(workbook_service.New, fx.As(new(app.WorkbookCodec))),
	)
}
