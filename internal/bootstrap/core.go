package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"

	"github.com/init-pkg/trade-disclosure/internal/config"
	"github.com/init-pkg/trade-disclosure/internal/db"
	"github.com/init-pkg/trade-disclosure/internal/logger"
	"github.com/init-pkg/trade-disclosure/internal/server"
	"github.com/init-pkg/trade-disclosure/internal/validation"
)

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.MustLoad,
			logger.New,
			newDatabase,
			validation.New,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		server.Register(),
	)
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dbCfg := &cfg.Infrastructure.Db

	gdb, err := db.Open(dbCfg)
	if err != nil {
		return nil, err
	}

	if dbCfg.Migrate {
		if err := db.Migrate(context.Background(), gdb, dbCfg.Driver, log); err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	log.Info("database ready", "driver", dbCfg.Driver)
	return gdb, nil
}
