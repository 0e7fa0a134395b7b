package bootstrap

import (
	"go.uber.org/fx"

	bridge_module "github.com/init-pkg/trade-disclosure/internal/app/bridge"
	editor_module "github.com/init-pkg/trade-disclosure/internal/app/editor"
	excel_parser_module "github.com/init-pkg/trade-disclosure/internal/app/excel-parser"
	grid_module "github.com/init-pkg/trade-disclosure/internal/app/grid"
	portfolio_module "github.com/init-pkg/trade-disclosure/internal/app/portfolio"
	portfolio_search_service "github.com/init-pkg/trade-disclosure/internal/app/portfolio-search"
	session_module "github.com/init-pkg/trade-disclosure/internal/app/session"
	template_module "github.com/init-pkg/trade-disclosure/internal/app/template"
	upload_module "github.com/init-pkg/trade-disclosure/internal/app/upload"
	workbook_module "github.com/init-pkg/trade-disclosure/internal/app/workbook"
)

func appOptions() fx.Option {
	return fx.Options(
		workbook_module.Register(),
		grid_module.Register(),
		template_module.Register(),
		portfolio_search_service.Register(),
		portfolio_module.Register(),
		bridge_module.Register(),
		editor_module.Register(),
		session_module.Register(),
		upload_module.Register(),
		excel_parser_module.Register(),
	)
}
