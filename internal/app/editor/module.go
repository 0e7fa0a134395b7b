package editor_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	editor_service "github.com/init-pkg/trade-disclosure/internal/app/editor/service"
	editor_http_handler "github.com/init-pkg/trade-disclosure/internal/app/editor/transports/http"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(editor_service.New, fx.As(new(app.EditorService))),
		server.AsRoute(editor_http_handler.New),
	)
}
