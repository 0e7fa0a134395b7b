package template_module

import (
	"github.com/init-pkg/trade-disclosure/domain/app"
	template_service "github.com/init-pkg/trade-disclosure/internal/app/template/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(template_service.New, fx.As(new(app.TemplateService))),
	)
}
