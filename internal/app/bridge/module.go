package bridge_module

import (
	"log/slog"

	"github.com/init-pkg/trade-disclosure/domain/app"
	bridge_service "github.com/init-pkg/trade-disclosure/internal/app/bridge/service"
	portfolio_store_client "github.com/init-pkg/trade-disclosure/internal/clients/portfolio-store"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"go.uber.org/fx"
)

const StoreModeRemote = "remote"

// NewStore selects the in-process portfolio service or the remote boundary.
func NewStore(cfg *config.Config, local app.PortfolioService, log *slog.Logger) app.PortfolioStore {
	if cfg.Clients.PortfolioStore.Mode == StoreModeRemote {
		log.Info("portfolio store is remote", "url", cfg.Clients.PortfolioStore.Url)
		return portfolio_store_client.New(cfg, log)
	}
	return local
}

func Register() fx.Option {
	return fx.Provide(
		NewStore,
		fx.Annotate(bridge_service.New, fx.As(new(app.PersistenceBridge))),
	)
}
