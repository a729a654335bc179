package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todowa/api/handler"
	"github.com/fastygo/todowa/internal/config"
	"github.com/fastygo/todowa/internal/infrastructure/monitor"
	"github.com/fastygo/todowa/internal/middleware"
	"github.com/fastygo/todowa/internal/notify"
	"github.com/fastygo/todowa/internal/router"
	"github.com/fastygo/todowa/internal/services"
	"github.com/fastygo/todowa/internal/services/lifecycle"
	"github.com/fastygo/todowa/pkg/httpcontext"
	"github.com/fastygo/todowa/pkg/logger"
	"github.com/fastygo/todowa/repository/memory"
	"github.com/fastygo/todowa/usecase"
	taskUC "github.com/fastygo/todowa/usecase/task"
	timerUC "github.com/fastygo/todowa/usecase/timer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("profile", cfg.ProfileID))

	balance, err := config.LoadBalance(cfg.Game.BalancePath)
	if err != nil {
		zapLogger.Fatal("balance file rejected", zap.Error(err))
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	backends, err := openBackends(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage setup failed", zap.Error(err))
	}

	mon := monitor.New(backends.pool, backends.redis, backends.outbox, cfg.Context.RequestTimeout*2, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sinks := notify.Fanout{notify.NewLogSink(zapLogger)}
	if backends.redis != nil {
		sinks = append(sinks, notify.NewRedisSink(backends.redis, cfg.ProfileID, zapLogger))
	}

	opts := []taskUC.Option{
		taskUC.WithLevels(balance.Levels),
		taskUC.WithRules(balance.Rules),
	}
	if backends.outbox != nil {
		processor := services.NewBufferProcessor(
			backends.outbox,
			mon,
			backends.mirror,
			zapLogger,
			services.ProcessorConfig{
				ProfileID:  cfg.ProfileID,
				Interval:   cfg.Sync.Interval,
				BatchSize:  cfg.Sync.BatchSize,
				MaxRetries: cfg.Sync.MaxRetry,
				Retention:  hours(cfg.Sync.RetentionHours),
			},
		)
		processor.Start()
		manager.Register("outbox_processor", func(ctx context.Context) error {
			processor.Stop(ctx)
			return processor.Drain(ctx)
		})
		var mirror usecase.SnapshotMirror = services.NewBufferBridge(processor, cfg.ProfileID)
		opts = append(opts, taskUC.WithMirror(mirror))
	}

	engine := taskUC.New(memory.NewTaskStore(), backends.snapshots, sinks, zapLogger, opts...)
	go drainErrors(appCtx, engine, zapLogger)

	if err := engine.Load(appCtx); err != nil {
		zapLogger.Error("could not load saved state, running in memory", zap.Error(err))
	} else if cfg.Game.SeedSamples {
		if seeded, err := engine.SeedSamples(appCtx); err != nil {
			zapLogger.Warn("sample tasks not seeded", zap.Error(err))
		} else if seeded {
			zapLogger.Info("sample tasks seeded")
		}
	}
	manager.Register("engine", engine.Flush)

	timer := timerUC.New(cfg.Game.TimerMinutes, backends.timers, sinks, nil, zapLogger)
	if err := timer.Restore(appCtx); err != nil {
		zapLogger.Warn("timer state not restored", zap.Error(err))
	}
	quotes := timerUC.NewRotator(timerUC.DefaultQuotes)

	ticker, err := services.NewTicker(timer, quotes, cfg.Game.QuoteInterval, zapLogger)
	if err != nil {
		zapLogger.Fatal("ticker setup failed", zap.Error(err))
	}
	ticker.Start()
	manager.Register("ticker", func(ctx context.Context) error {
		ticker.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(engine, ctxAdapter, zapLogger),
		Progress: apiHandler.NewProgressHandler(engine, ctxAdapter, zapLogger),
		Settings: apiHandler.NewSettingsHandler(engine, ctxAdapter, zapLogger),
		Snapshot: apiHandler.NewSnapshotHandler(engine, ctxAdapter, zapLogger),
		Timer:    apiHandler.NewTimerHandler(timer, quotes, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, engine, cfg.Storage.Driver, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	if cfg.JWT.Secret == "" {
		zapLogger.Warn("API_JWT_SECRET not set, API is unauthenticated")
	}
	handler := router.New(handlers, authMiddleware, middleware.AccessLog(zapLogger))

	server := &fasthttp.Server{
		Handler:            handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:      cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: maxBodySize,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("sync", backends.outbox != nil))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
