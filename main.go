package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/swimtimes/config"
	"github.com/padraicbc/swimtimes/db"
	"github.com/padraicbc/swimtimes/fuzzy"
	"github.com/padraicbc/swimtimes/handlers"
	applog "github.com/padraicbc/swimtimes/logger"
	"github.com/padraicbc/swimtimes/metrics"
	"github.com/padraicbc/swimtimes/store"
	"github.com/padraicbc/swimtimes/tracker"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug, cfg.LogEncoding)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}
	defer bdb.Close()

	if err := db.CreateTables(ctx, bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	st := store.Store(store.NewPostgres(bdb))
	if cfg.Store != config.StorePostgres {
		if st, err = store.Open(ctx, cfg, logger); err != nil {
			logger.Fatal("open store failed", zap.Error(err))
		}
		defer st.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewPrometheus(reg, "")
	if err != nil {
		logger.Fatal("register metrics failed", zap.Error(err))
	}

	decider, err := tracker.PolicyDecider(cfg.RosterRemoval, cfg.MissingNames)
	if err != nil {
		logger.Fatal("invalid policy", zap.Error(err))
	}

	svc := tracker.New(st,
		tracker.WithLogger(logger),
		tracker.WithMatcher(fuzzy.New(cfg.FuzzyMode, cfg.FuzzyThreshold)),
		tracker.WithMetrics(rec),
		tracker.WithMaxCombinations(cfg.MedleyMaxCombinations),
	)
	h := handlers.New(bdb, cfg.JWTKey(), svc, decider)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		ExposeHeaders:    []string{"ETag"},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	h.Routes(e)

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.String("mode", "plain"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting server", zap.String("mode", "tls"), zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
