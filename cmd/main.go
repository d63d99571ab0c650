package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"voice2crm-service/internal/app"
	"voice2crm-service/internal/config"
	"voice2crm-service/internal/events"
	apihttp "voice2crm-service/internal/http"
	"voice2crm-service/internal/observability"
	"voice2crm-service/internal/service/crm"
	"voice2crm-service/internal/service/extract"
	"voice2crm-service/internal/service/stt"
	sttgoogle "voice2crm-service/internal/service/stt/google"
	sttmock "voice2crm-service/internal/service/stt/mock"
	sttopenai "voice2crm-service/internal/service/stt/openai"
	"voice2crm-service/internal/store"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}
	defer application.Shutdown()

	tokens, cleanup, err := newTokenStore(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("Token store initialization failed")
	}
	defer cleanup()

	transcriber, err := newTranscriber(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("STT provider initialization failed")
	}

	extractor := extract.New(openai.NewClient(cfg.OpenAI.APIKey), cfg.OpenAI.ChatModel)
	crmClient := crm.New(cfg.HubSpot, tokens)

	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicExtracted: cfg.Kafka.TopicExtracted,
		TopicSubmitted: cfg.Kafka.TopicSubmitted,
		Principal:      cfg.Kafka.Principal,
	})
	defer publisher.Close()

	router := apihttp.NewRouter(&apihttp.Handlers{
		Transcriber:     transcriber,
		Extractor:       extractor,
		Crm:             crmClient,
		Publisher:       publisher,
		FrontendURL:     cfg.Service.FrontendURL,
		MaxUploadBytes:  cfg.Service.MaxUploadBytes,
		DefaultLanguage: cfg.STT.Language,
	})

	obsServer := observability.NewServer(":" + cfg.Service.MetricsPort)
	obsServer.Start()

	server := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("sttProvider", transcriber.Name()).
			Msg("Voice2CRM API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	obsServer.Shutdown(ctx)
}

// newTokenStore builds the configured token store backend and returns a
// cleanup function for backends that hold resources.
func newTokenStore(cfg config.StoreConfig) (store.TokenStore, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return store.NewFileStore(cfg.FilePath), func() {}, nil
	}
}

// newTranscriber builds the configured speech-to-text provider.
func newTranscriber(cfg *config.Configuration) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "google":
		return sttgoogle.New(context.Background())
	case "mock":
		return sttmock.New(), nil
	default:
		return sttopenai.New(cfg.OpenAI.APIKey, cfg.OpenAI.WhisperModel), nil
	}
}
