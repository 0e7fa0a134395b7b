package grid_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	grid_service "github.com/init-pkg/trade-disclosure/internal/app/grid/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(grid_service.New, fx.As(new(app.GridAdapter))),
	)
}
