package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-code-store/internal/application"
	"telegram-code-store/internal/config"
	"telegram-code-store/internal/domain/model"
	tele "telegram-code-store/internal/infra/adapters/telegram"
	pg "telegram-code-store/internal/infra/db/postgres"
	"telegram-code-store/internal/infra/i18n"
	"telegram-code-store/internal/infra/logging"
	"telegram-code-store/internal/infra/metrics"
	red "telegram-code-store/internal/infra/redis"
	"telegram-code-store/internal/infra/sched"
	"telegram-code-store/internal/infra/web"
	"telegram-code-store/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop Telegram transport)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	codeRepo := pg.NewCodeRepoCacheDecorator(pg.NewCodeRepo(pool), redisClient, cfg.Redis.TTL)
	saleRepo := pg.NewSaleRepo(pool)

	// ---- Catalog / locale / timezone ----
	catalog := buildCatalog(cfg.Catalog)
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load locale")
	}
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.Report.Timezone).Msg("bad report timezone")
	}

	// ---- Use cases ----
	invUC := usecase.NewInventoryUseCase(codeRepo, tm, logger)
	reportUC := usecase.NewReportUseCase(saleRepo, catalog, loc, logger)

	// ---- Telegram + delivery ----
	var facade *application.BotFacade
	var botAdapter *tele.RealTelegramBotAdapter
	if cfg.Runtime.Dev {
		gateway := tele.NewDMDeliveryGateway(tele.NewNoopBotAdapter(), cfg.Bot.PurchaseLogChatID)
		allocUC := usecase.NewAllocationUseCase(codeRepo, saleRepo, tm, gateway, logger)
		facade = application.NewBotFacade(invUC, allocUC, reportUC, catalog, translator)
	} else {
		botAdapter, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, cfg.RateLimit, nil, rateLimiter, translator, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram connect failed")
		}
		gateway := tele.NewDMDeliveryGateway(botAdapter, cfg.Bot.PurchaseLogChatID)
		allocUC := usecase.NewAllocationUseCase(codeRepo, saleRepo, tm, gateway, logger)
		facade = application.NewBotFacade(invUC, allocUC, reportUC, catalog, translator)
		botAdapter.SetFacade(facade)

		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()

		// ---- Live stock view ----
		worker := sched.NewLiveStockWorker(cfg.LiveStock.Interval, cfg.Bot.LiveStockChatID, invUC, catalog, botAdapter, logger)
		go func() { _ = worker.Run(ctx) }()
	}

	// ---- Admin API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	adminSrv := web.NewServer(invUC, reportUC, catalog, auth, cfg.Admin.Password, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminSrv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin api server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	if botAdapter != nil {
		botAdapter.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}

// buildCatalog applies config overrides on top of the default catalog.
func buildCatalog(overrides []config.ProductConfig) model.Catalog {
	catalog := model.DefaultCatalog()
	for _, o := range overrides {
		typ, err := model.ParseProductType(o.Type)
		if err != nil {
			log.Printf("catalog: skipping unknown product type %q", o.Type)
			continue
		}
		p := catalog[typ]
		if o.Title != "" {
			p.Title = o.Title
		}
		if o.Period != "" {
			p.Period = o.Period
		}
		if o.UnitPrice > 0 {
			p.UnitPrice = o.UnitPrice
		}
		catalog[typ] = p
	}
	return catalog
}
