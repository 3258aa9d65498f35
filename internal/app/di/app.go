package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_advisor/internal/app/router"
	"stock_advisor/internal/feature/advisor/adapters/resolver"
	advisorhandler "stock_advisor/internal/feature/advisor/transport/handler"
	advisoruc "stock_advisor/internal/feature/advisor/usecase"
	knowledgehandler "stock_advisor/internal/feature/knowledge/transport/handler"
	"stock_advisor/internal/feature/knowledge/vectorindex"
	"stock_advisor/internal/feature/logodetection/adapters/vision"
	logohandler "stock_advisor/internal/feature/logodetection/transport/handler"
	logouc "stock_advisor/internal/feature/logodetection/usecase"
	historyadapters "stock_advisor/internal/feature/queryhistory/adapters"
	historyentity "stock_advisor/internal/feature/queryhistory/domain/entity"
	historyhandler "stock_advisor/internal/feature/queryhistory/transport/handler"
	historyuc "stock_advisor/internal/feature/queryhistory/usecase"
	symboladapters "stock_advisor/internal/feature/symbollist/adapters"
	symbolentity "stock_advisor/internal/feature/symbollist/domain/entity"
	symbolhandler "stock_advisor/internal/feature/symbollist/transport/handler"
	symboluc "stock_advisor/internal/feature/symbollist/usecase"
	infradb "stock_advisor/internal/platform/db"
	"stock_advisor/internal/platform/http/handler"
	"stock_advisor/internal/platform/metrics"
	infraredis "stock_advisor/internal/platform/redis"
)

// App is the assembled HTTP application.
type App struct {
	Config Config
	Router *gin.Engine

	closers []func() error
}

// Close releases clients opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// NewApp wires every component from environment configuration.
// Redis and logo detection are optional; the application runs without them.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	// db
	dbCfg, err := infradb.LoadConfig(ctx)
	if err != nil {
		return fail(err)
	}
	db, err := infradb.OpenDB(dbCfg, &historyentity.QueryRecord{}, &symbolentity.Symbol{})
	if err != nil {
		return fail(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	// Redis
	rdb := newOptionalRedis(ctx)
	if rdb != nil {
		app.closers = append(app.closers, rdb.Close)
	}

	obs := metrics.New(prometheus.DefaultRegisterer)

	// symbol master
	symbolUC := symboluc.NewSymbolUsecase(symboladapters.NewSymbolRepository(db))
	if n, err := symbolUC.SeedDefaults(ctx); err != nil {
		slog.Warn("failed to seed symbol master", "error", err)
	} else if n > 0 {
		slog.Info("seeded symbol master", "count", n)
	}
	symbols, err := symbolUC.ListActiveSymbols(ctx)
	if err != nil {
		return fail(fmt.Errorf("load symbol master: %w", err))
	}
	local, err := symboladapters.NewLocalResolver(symbols)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, local.Close)

	// upstream sources
	yc, err := NewYahoo(ctx)
	if err != nil {
		return fail(err)
	}
	market, err := NewMarket(ctx, cfg, rdb)
	if err != nil {
		return fail(err)
	}

	// models and knowledge
	models := NewModels(cfg)
	llm, err := models.LanguageModel(ctx)
	if err != nil {
		return fail(err)
	}
	index, knowledgeUC, err := NewKnowledge(ctx, cfg, models)
	if err != nil {
		return fail(err)
	}
	if err := vectorindex.Bootstrap(ctx, index); err != nil {
		slog.Warn("failed to bootstrap embedding index", "error", err)
	}

	advisor := advisoruc.NewAdvisor(advisoruc.Deps{
		Resolver: resolver.NewChain(
			resolver.Named{Name: "yahoo", Resolver: yc},
			resolver.Named{Name: "local", Resolver: local},
		),
		Quotes:    market.Quotes,
		Companies: market.Companies,
		History:   market.History,
		News:      yc,
		Documents: knowledgeUC,
		LLM:       llm,
	}, advisoruc.WithFetchTimeout(cfg.FetchTimeout), advisoruc.WithObserver(obs))

	historyUC := historyuc.NewQueryHistoryUsecase(historyadapters.NewQueryRepository(db))

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(healthChecks(db, rdb, index)),
		Advisor:   advisorhandler.NewAdvisorHandler(advisor, market, market.Status, historyUC),
		Knowledge: knowledgehandler.NewKnowledgeHandler(knowledgeUC),
		History:   historyhandler.NewHistoryHandler(historyUC),
		Symbols:   symbolhandler.NewSymbolHandler(symbolUC),
		Metrics:   obs.Handler(),
	}

	if cfg.LogoDetection {
		detector, err := vision.NewVisionLogoDetector(ctx)
		if err != nil {
			slog.Warn("logo detection disabled", "error", err)
		} else {
			app.closers = append(app.closers, detector.Close)
			handlers.Logo = logohandler.NewLogoDetectionHandler(logouc.NewLogoDetectionUsecase(detector, advisor), historyUC)
		}
	}

	app.Router = router.NewRouter(handlers)
	return app, nil
}

func newOptionalRedis(ctx context.Context) *redisv9.Client {
	cfg, err := infraredis.LoadConfig(ctx)
	if err != nil {
		slog.Warn("invalid redis config, running without cache", "error", err)
		return nil
	}
	if !cfg.Enabled() {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}

// healthChecks returns the dependency checks reported by /healthz.
func healthChecks(db *gorm.DB, rdb *redisv9.Client, index *vectorindex.Index) map[string]handler.Check {
	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"index": func(context.Context) error {
			if index.IsEmpty() {
				return errors.New("embedding index is empty")
			}
			return nil
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
