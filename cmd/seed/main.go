package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"growpreen/pkg/config"
	"growpreen/pkg/db"
	"growpreen/pkg/gen"
	"growpreen/pkg/logger"
	"growpreen/services/bootstrap"
)

// seed migrates the schema and writes the starter task templates into an
// empty catalogue, then exits.
func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		gen.Module,
		bootstrap.Module,
		fx.Invoke(seed),
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if err := app.Stop(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
}

func seed(lc fx.Lifecycle, b *bootstrap.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := b.SeedTemplates(ctx, bootstrap.DefaultTemplates)
			if err != nil {
				return err
			}
			zap.L().Info("[Seed] done", zap.Int("templates", n))
			return nil
		},
	})
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
