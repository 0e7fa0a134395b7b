package main

import (
	"context"
	"os"

	"github.com/init-pkg/trade-disclosure/domain/app"
	portfolio_search_service "github.com/init-pkg/trade-disclosure/internal/app/portfolio-search"
	portfolio_repository "github.com/init-pkg/trade-disclosure/internal/app/portfolio/repository"
	portfolio_service "github.com/init-pkg/trade-disclosure/internal/app/portfolio/service"
	template_service "github.com/init-pkg/trade-disclosure/internal/app/template/service"
	amqp_client "github.com/init-pkg/trade-disclosure/internal/clients/amqp"
	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/db"
	"github.com/init-pkg/trade-disclosure/internal/logger"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

// Seeds one demo portfolio built from the default template when the table is empty.
func main() {
	var (
		cfg = config.MustLoad()
		log = logger.New(cfg)
		gdb = db.MustOpen(&cfg.Infrastructure.Db)
		ctx = context.Background()
	)

	if err := db.Migrate(ctx, gdb, cfg.Infrastructure.Db.Driver, log); err != nil {
		log.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	repo := portfolio_repository.New(gdb)
	count, err := repo.Count(ctx)
	if err != nil {
		log.Error("count portfolios failed", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		log.Info("portfolios present, nothing to seed", "count", count)
		return
	}

	templates, tplErr := template_service.New(log)
	if tplErr != nil {
		log.Error("load templates failed", "error", tplErr)
		os.Exit(1)
	}
	tpl, err := templates.Get(template_service.DefaultTemplate)
	if err != nil {
		log.Error("default template missing", "error", err)
		os.Exit(1)
	}

	svc := portfolio_service.New(
		repo,
		portfolio_search_service.New(nil, nil, cfg, log),
		amqp_client.Noop{},
		validation.New(),
		log,
	)

	res, err := svc.Create(ctx,
		app.Credentials{Username: "seed"},
		app.PortfolioKey{InvestorID: 1, Quarter: app.QuarterQ1, Year: 2025},
		app.SheetPayload{Data: tpl.Sheet(), FileName: tpl.FileName()},
	)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}

	log.Info("demo portfolio seeded", "id", res.RecordID)
}
