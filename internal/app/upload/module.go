package upload_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	"github.com/init-pkg/trade-disclosure/internal/app/upload/recognizer"
	upload_service "github.com/init-pkg/trade-disclosure/internal/app/upload/service"
	upload_store "github.com/init-pkg/trade-disclosure/internal/app/upload/store"
	upload_http_handler "github.com/init-pkg/trade-disclosure/internal/app/upload/transports/http"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(upload_store.New, fx.As(new(app.UploadStatusStore))),
		recognizer.New,
		fx.Annotate(upload_service.New, fx.As(new(app.UploadService))),
		server.AsRoute(upload_http_handler.New),
	)
}
