package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/clients/prompt_client"
	"github.com/mcdev12/teamquiz/go/internal/config"
	"github.com/mcdev12/teamquiz/go/internal/events"
	"github.com/mcdev12/teamquiz/go/internal/gateway"
	"github.com/mcdev12/teamquiz/go/internal/session"
)

type Services struct {
	Session   *session.Session
	Gateway   *gateway.Service
	Events    *events.Worker
	jetStream *events.JetStreamPublisher
}

func setupServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	// Wire up dependency injection chain
	// Prompt client → Event worker → Session → Gateway

	prompts := prompt_client.NewPromptClient(cfg.Controller.PromptGatewayURL)
	prompts.SetTimeout(cfg.Controller.GatewayTimeout)

	publisher, jetStream, err := setupPublisher(ctx, cfg.NATS)
	if err != nil {
		return nil, err
	}
	worker := events.NewWorker(publisher, events.DefaultWorkerConfig())
	worker.Start(ctx)

	quiz := session.New(ctx, prompts, worker, session.Config{
		DefaultTimerSeconds: cfg.Controller.DefaultTimerSeconds,
		InitialPromptCount:  cfg.Controller.InitialPromptCount,
		MinPromptLength:     cfg.PromptPool.MinPromptLength,
	})

	return &Services{
		Session:   quiz,
		Gateway:   gateway.NewService(quiz, gateway.DefaultConnectionConfig()),
		Events:    worker,
		jetStream: jetStream,
	}, nil
}

func setupPublisher(ctx context.Context, cfg config.NATSConfig) (events.Publisher, *events.JetStreamPublisher, error) {
	if cfg.URL == "" {
		log.Info().Msg("NATS_URL not set, events are logged only")
		return events.NewLogPublisher(), nil, nil
	}

	jsCfg := events.DefaultJetStreamConfig()
	jsCfg.URL = cfg.URL
	jsCfg.StreamName = cfg.Stream
	jsCfg.SubjectPrefix = cfg.SubjectPrefix

	js, err := events.NewJetStreamPublisher(ctx, jsCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up event publisher: %w", err)
	}
	return js, js, nil
}

// Close tears services down in dependency order
func (s *Services) Close() {
	s.Gateway.Shutdown()
	s.Session.Close()
	s.Events.Stop()
	if s.jetStream != nil {
		if err := s.jetStream.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event publisher")
		}
	}
}
