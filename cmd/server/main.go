package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type publisher interface {
	service.Publisher
	Close() error
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("Ошибка миграции БД: %v", err)
	}

	var events publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	store := repo.New(gdb)

	var engine search.Engine = &search.Database{Repo: store}
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "reason", "using database search", "error", err)
		} else {
			engine = &search.Elastic{ES: client, IndexName: cfg.ESIndex}
			logger.Info("elasticsearch_enabled", "index", cfg.ESIndex)
		}
	}

	catalogSvc := &service.CatalogService{Repo: store, Search: engine, Events: events}
	cartSvc := &service.CartService{Repo: store, Events: events}
	orderSvc := &service.OrderService{Repo: store, Events: events}
	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        events,
	}
	cookies := tokens.Cookies{Secure: cfg.CookieSecure}

	var csrfCfg *csrf.Config
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.CookieSecure
		csrfCfg = &c
	}

	e := echo.New()
	e.HideBanner = true

	httpserver.Register(e, &httpserver.Deps{
		DB:      gdb,
		Logger:  logger,
		Catalog: &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart:    &httpserver.CartHTTP{Svc: cartSvc, Orders: orderSvc},
		Orders:  &httpserver.OrderHTTP{Svc: orderSvc},
		Auth:    &httpserver.AuthHTTP{Svc: authSvc, Cookies: cookies},
		Admin:   &httpserver.AdminHTTP{Svc: catalogSvc},
		Session: &authmw.Session{
			JWTSecret: cfg.JWTAccessSecret,
			Refresher: authSvc,
			Cookies:   cookies,
			LoginPath: "/login/",
		},
		CSRF: csrfCfg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
