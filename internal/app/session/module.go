package session_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	session_store "github.com/init-pkg/trade-disclosure/internal/app/session/store"
	session_http_handler "github.com/init-pkg/trade-disclosure/internal/app/session/transports/http"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"go.uber.org/fx"
)

func same(h *session_http_handler.SessionHttpHandler) *session_http_handler.SessionHttpHandler {
	return h
}

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(session_store.New, fx.As(new(app.SessionStore))),
		session_http_handler.New,
		server.AsRoute(same),
		server.AsMiddleware(same),
	)
}
