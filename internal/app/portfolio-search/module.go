package portfolio_search_service

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(New, fx.As(new(app.PortfolioIndex))),
	)
}
