package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DKret94/portfolio_webapp/config"
	"github.com/DKret94/portfolio_webapp/data"
	"github.com/DKret94/portfolio_webapp/data/repository/postgres"
	"github.com/DKret94/portfolio_webapp/internal/reportGenerator/xlsxGenerator"
	"github.com/DKret94/portfolio_webapp/internal/service/portfolioService"
	"github.com/DKret94/portfolio_webapp/internal/transport/web"
	"github.com/DKret94/portfolio_webapp/internal/webserver"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	pgClient, err := data.NewPostgresClient(cfg)
	if err != nil {
		slog.Error("postgres init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pgClient.Close()

	pgRepo := postgres.NewPostgres(pgClient)

	reportGenerator := xlsxGenerator.New()

	portfolioSrv := portfolioService.New(pgRepo, reportGenerator)

	ctrl := web.NewController(portfolioSrv)

	srv := webserver.New(cfg, ctrl)
	srv.Start()
	defer srv.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
