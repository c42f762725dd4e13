package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/internal/assistant"
	"github.com/euRhuanOLiveira/Driverpro/internal/broker"
	"github.com/euRhuanOLiveira/Driverpro/internal/identity"
	"github.com/euRhuanOLiveira/Driverpro/internal/repo"
	"github.com/euRhuanOLiveira/Driverpro/internal/server"
	"github.com/euRhuanOLiveira/Driverpro/internal/service"
	"github.com/euRhuanOLiveira/Driverpro/internal/ws"
	"github.com/euRhuanOLiveira/Driverpro/pkg"
)

func main() {
	slogger := pkg.CustomSlog("dashboard-service")
	cfg, err := pkg.ParseConfig()
	if err != nil {
		slogger.Error("cannot parse config", "action", "parse config", "error", err)
		os.Exit(1)
	}
	slogger = pkg.CustomSlog("dashboard-service", cfg.ServicesCfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pkg.NewDB(ctx, &cfg.DatabaseCfg)
	if err != nil {
		slogger.Error("cannot create connection to db", "action", "connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	profiles := repo.NewProfileRepo(pool)
	trips := repo.NewTripRepo(pool)
	reads := repo.NewDashboardRepo(pool)

	rabbit, err := broker.NewEventRabbit(cfg.RabbitMQCfg, slogger)
	if err != nil {
		slogger.Error("cannot create connection to rabbitMQ", "action", "connect to rabbitMQ", "error", err)
		os.Exit(1)
	}
	defer rabbit.CloseRabbit()

	var gen service.Generator
	gemini, err := assistant.NewGemini(ctx, slogger, &cfg.AssistantCfg)
	if err != nil {
		slogger.Warn("assistant disabled", "action", "init assistant", "error", err)
	} else {
		gen = gemini
	}

	hub := ws.NewDashboardHub(slogger, []byte(cfg.AuthCfg.JWTSecret), cfg.WebSocketCfg.Port)
	imports := service.NewImportService(slogger, profiles, trips, rabbit, nil)
	dashboards := service.NewDashboardService(slogger, profiles, reads)
	notifier := service.NewRefreshNotifier(slogger, dashboards, hub)
	go rabbit.ConsumeImports(ctx, notifier)

	myServer := server.NewDashboardServer(slogger, cfg.ServicesCfg.DashboardService, cfg.AuthCfg.JWTSecret, server.Deps{
		Auth:        identity.NewClient(slogger, &cfg.AuthCfg),
		Imports:     imports,
		Dashboards:  dashboards,
		Assistant:   service.NewAssistantService(slogger, dashboards, gen),
		MaxUploadMB: cfg.ImportCfg.MaxUploadMB,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		slogger.Info("starting the server", "action", "start the server", "port", cfg.ServicesCfg.DashboardService)
		err := myServer.StartServer()
		if !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server stopped", "action", "start the server", "error", err)
		}
		quit <- nil
	}()
	go func() {
		slogger.Info("starting the websocket hub", "action", "start the websocket", "port", cfg.WebSocketCfg.Port)
		err := hub.StartServer()
		if !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("websocket hub stopped", "action", "start the websocket", "error", err)
		}
		quit <- nil
	}()
	<-quit

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := myServer.ShutDownServer(shutdownCtx); err != nil {
		slogger.Error("cannot shut down server", "action", "shutdown", "error", err)
	}
	if err := hub.CloseServer(); err != nil {
		slogger.Error("cannot close websocket hub", "action", "shutdown", "error", err)
	}
}
