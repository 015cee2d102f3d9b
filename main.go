package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/routers"
	"learnly/services/mailer"
	"learnly/services/mercadopago"
	"learnly/services/sheets"
	"learnly/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	if err := logger.Init(cfg.LogMode); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(cfg); err != nil {
		logger.Log.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	mailer.Init(cfg)
	if err := sheets.Init(context.Background(), cfg); err != nil {
		logger.Log.Warn("Google Sheets sync disabled", "error", err)
	}
	mercadopago.Init(cfg)

	scheduler, err := utils.InitializeScheduler()
	if err != nil {
		logger.Log.Fatal("Failed to start scheduler", "error", err)
	}

	app := routers.NewApp(cfg)

	go func() {
		logger.Log.Info("Server is running", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Log.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Error("Server shutdown failed", "error", err)
	}
	<-scheduler.Stop().Done()
}
