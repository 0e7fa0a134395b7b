package bootstrap

import (
	"go.uber.org/fx"

	"github.com/init-pkg/trade-disclosure/domain/app"
	amqp_client "github.com/init-pkg/trade-disclosure/internal/clients/amqp"
	fetcher_client "github.com/init-pkg/trade-disclosure/internal/clients/fetcher"
	filestore_client "github.com/init-pkg/trade-disclosure/internal/clients/filestore"
	openai_client "github.com/init-pkg/trade-disclosure/internal/clients/openai"
	opensearch_client "github.com/init-pkg/trade-disclosure/internal/clients/opensearch"
	redis_client "github.com/init-pkg/trade-disclosure/internal/clients/redis"
)

func clientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			openai_client.New,
			opensearch_client.New,
			redis_client.New,
			amqp_client.New,
			filestore_client.New,
			fx.Annotate(fetcher_client.New, fx.As(new(app.SpreadsheetFetcher))),
		),
	)
}
