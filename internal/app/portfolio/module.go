package portfolio_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	portfolio_repository "github.com/init-pkg/trade-disclosure/internal/app/portfolio/repository"
	portfolio_service "github.com/init-pkg/trade-disclosure/internal/app/portfolio/service"
	portfolio_http_handler "github.com/init-pkg/trade-disclosure/internal/app/portfolio/transports/http"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		portfolio_repository.New,
		fx.Annotate(portfolio_service.New, fx.As(new(app.PortfolioService))),
		server.AsRoute(portfolio_http_handler.New),
	)
}
