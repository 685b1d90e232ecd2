package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"dealbot/internal/configuration"
	"dealbot/internal/database"
	"dealbot/internal/logger"
	"dealbot/internal/server"
	"dealbot/internal/templates"
)

func main() {
	if err := runApp(); err != nil {
		os.Exit(1)
	}
}

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(false, false, true, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("dealbot_dashboard.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(config.LogDebugEnabled, config.LogInfoEnabled, config.LogErrorEnabled, logOutput)

	appLogger.Info("Connecting to DB at", config.DatabaseURL)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURL)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			appLogger.Error("Error closing DB:", err)
		}
	}()

	tmpl, err := templates.New()
	if err != nil {
		appLogger.Error("Error parsing templates:", err)
		return err
	}

	srv := server.Server{
		DB:                  database.Database{DB: dbConn},
		Logger:              appLogger,
		Templates:           tmpl,
		AuthSecretKey:       config.AuthSecretKey,
		BotAPIKeyHash:       config.BotAPIKeyHash,
		WhatsAppNumber:      config.WhatsAppNumber,
		WhatsAppSandboxJoin: config.WhatsAppSandboxJoin,
		DashboardURL:        config.DashboardURL,
		TokenExpiry:         config.TokenExpiry,
	}

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}
