// Command mingshi-server runs the name generation HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/linqiu-dev/mingshi/internal/config"
	"github.com/linqiu-dev/mingshi/internal/prompts"
	"github.com/linqiu-dev/mingshi/internal/providers"
	"github.com/linqiu-dev/mingshi/internal/server"
	"github.com/linqiu-dev/mingshi/internal/session"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Optional: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	client, err := providers.NewClientFromConfig(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to create LLM client")
	}

	promptStore := prompts.NewStore()
	svc := session.NewService(client, promptStore, session.Config{
		Model:                cfg.Model,
		MaxConversationTurns: cfg.MaxConversationTurns,
		MaxSessionMessages:   cfg.MaxSessionMessages,
		MaxTokensPerSession:  cfg.MaxTokensPerSession,
		CostThresholdUSD:     cfg.CostThresholdUSD,
		InputTokenPrice:      cfg.InputTokenPrice,
		OutputTokenPrice:     cfg.OutputTokenPrice,
		Temperature:          cfg.Temperature,
		MaxOutputTokens:      cfg.MaxOutputTokens,
		RequestTimeout:       cfg.RequestTimeout,
		IdleTimeout:          cfg.SessionTimeout,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.RunSweeper(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(svc, promptStore, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown error")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"provider": cfg.Provider,
		"model":    cfg.Model,
	}).Info("mingshi server listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}

	log.Info("server stopped")
}
