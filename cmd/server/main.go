package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"growpreen/pkg/config"
	"growpreen/pkg/db"
	"growpreen/pkg/gen"
	"growpreen/pkg/health"
	"growpreen/pkg/httpapi"
	"growpreen/pkg/lock"
	"growpreen/pkg/logger"
	"growpreen/pkg/minio"
	"growpreen/pkg/otelcol"
	"growpreen/pkg/profiling"
	"growpreen/pkg/redis"
	"growpreen/pkg/sequence"
	"growpreen/pkg/server"
	"growpreen/pkg/task"
	"growpreen/services/account"
	"growpreen/services/bootstrap"
	"growpreen/services/ledger"
	"growpreen/services/notification"
	"growpreen/services/payment"
	"growpreen/services/referral"
	tasksvc "growpreen/services/task"
	"growpreen/services/withdrawal"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		otelcol.Module,
		profiling.Module,
		db.Module,
		redis.Module,
		gen.Module,
		lock.Module,
		sequence.Module,
		minio.Client,
		task.Client,
		health.Module,
		bootstrap.Module,
		ledger.Module,
		ledger.Routes,
		payment.Module,
		payment.Routes,
		notification.Module,
		notification.Routes,
		referral.Module,
		referral.Routes,
		tasksvc.Module,
		tasksvc.Routes,
		withdrawal.Module,
		withdrawal.Routes,
		account.Module,
		account.Routes,
		httpapi.Module,
		server.ProvideHTTPServer,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	if cfg.AppEnv == "development" {
		return &fxevent.ZapLogger{Logger: logger}
	}
	return fxevent.NopLogger
})
