package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/dasmlab/kotoba/pkg/bot"
	"github.com/dasmlab/kotoba/pkg/config"
	"github.com/dasmlab/kotoba/pkg/server"
	"github.com/dasmlab/kotoba/pkg/session"
	"github.com/dasmlab/kotoba/pkg/translate"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.WithFields(logrus.Fields{
		"mode":      cfg.Mode,
		"prefix":    cfg.Prefix,
		"lang_pair": cfg.From + "-" + cfg.To,
		"model":     cfg.GeminiModel,
		"triggers":  cfg.Triggers,
		"http_port": cfg.HTTPPort,
		"grpc_port": cfg.GRPCPort,
		"log_level": level.String(),
	}).Info("Starting Kotoba translation bot")

	state := session.New()
	if err := state.SetPair(cfg.From, cfg.To); err != nil {
		logger.WithError(err).Fatal("Failed to set initial language pair")
	}

	translator, err := translate.New(translate.Config{
		Mode:    cfg.Mode,
		BaseURL: cfg.GeminiURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  logger,
	}, state)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create translator")
	}

	// Verify translator is healthy
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	logger.Info("Checking translator health...")
	if err := translator.CheckHealth(ctx); err != nil {
		logger.WithError(err).Warn("Translator health check failed, but continuing anyway")
	} else {
		logger.Info("Translator health check passed")
	}
	cancel()

	b, err := bot.New(bot.Config{
		Prefix:     cfg.Prefix,
		Mode:       cfg.Mode,
		Triggers:   cfg.Triggers,
		Session:    state,
		Translator: translator,
		Logger:     logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create bot")
	}

	gateway, err := bot.NewGateway(cfg.DiscordToken, b, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Discord gateway")
	}

	errChan := make(chan error, 2)

	var httpServer *server.HTTPServer
	if cfg.HTTPPort != 0 {
		httpServer = server.NewHTTPServer(gateway, state, string(cfg.Mode), cfg.Prefix, cfg.HTTPPort, logger)
		go func() {
			if err := httpServer.Start(); err != nil {
				errChan <- err
			}
		}()
	}

	var grpcServer *server.GRPCServer
	if cfg.GRPCPort != 0 {
		grpcServer = server.NewGRPCServer(cfg.GRPCPort, logger)
		gateway.OnStatusChange(grpcServer.SetGatewayStatus)
		go func() {
			if err := grpcServer.Start(); err != nil {
				errChan <- err
			}
		}()
	}

	if err := gateway.Open(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Discord")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.WithError(err).Error("Server error")
	case sig := <-sigChan:
		logger.WithFields(logrus.Fields{
			"signal": sig.String(),
		}).Info("Received signal, shutting down gracefully...")
	}

	if err := gateway.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close Discord session cleanly")
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("HTTP server shutdown failed")
		}
	}
	if grpcServer != nil {
		grpcServer.Stop(30 * time.Second)
	}
	logger.Info("Shutdown complete")
}
