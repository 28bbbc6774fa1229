package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"growpreen/pkg/config"
	"growpreen/pkg/db"
	"growpreen/pkg/gen"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/otelcol"
	"growpreen/pkg/redis"
	"growpreen/pkg/task"
	"growpreen/services/ledger"
	"growpreen/services/notification"
	"growpreen/services/rollover"
)

// The worker drains queued notifications and runs the period rollover.
func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		otelcol.Module,
		db.Module,
		redis.Module,
		gen.Module,
		lock.Module,
		ledger.Module,
		notification.Module,
		notification.WorkerModule,
		task.Server,
		rollover.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
