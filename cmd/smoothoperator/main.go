// Command smoothoperator runs the multi-agent note-taking chat service:
// passcode login, per-session provider keys, and an SSE chat endpoint backed
// by the concierge/archivist agent graph.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/smoothoperator"
	"github.com/hupe1980/smoothoperator/config"
	"github.com/hupe1980/smoothoperator/logging"
	"github.com/hupe1980/smoothoperator/model"
	"github.com/hupe1980/smoothoperator/model/anthropic"
	"github.com/hupe1980/smoothoperator/model/openai"
	"github.com/hupe1980/smoothoperator/orchestrator"
	"github.com/hupe1980/smoothoperator/server"
	"github.com/hupe1980/smoothoperator/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(&logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})
	logger.Info("starting", "app", cfg.AppName, "env", cfg.Env, "provider", cfg.ModelProvider)

	sessions := session.NewStore(func(o *session.Options) {
		o.SessionTTL = cfg.SessionTTL
		o.ThreadTTL = cfg.ThreadTTL
		o.Logger = logger
	})

	op, err := smoothoperator.New(modelFactory(cfg), func(o *smoothoperator.Options) {
		o.SessionStore = sessions
		o.MaxIterations = cfg.MaxIterations
		o.Logger = logger
	})
	if err != nil {
		return fmt.Errorf("wiring orchestrator: %w", err)
	}

	srv := server.New(cfg, sessions, op, func(o *server.Options) {
		o.Logger = logger
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.RunJanitor(ctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// modelFactory builds a per-turn model from the session's API key, honoring
// the configured provider and optional model id overrides.
func modelFactory(cfg *config.Config) orchestrator.ModelFactory {
	if cfg.ModelProvider == "anthropic" {
		return func(apiKey string) model.Model {
			return anthropic.NewModel(func(o *anthropic.Options) {
				o.APIKey = apiKey
				if cfg.AnthropicModel != "" {
					o.Model = anthropicsdk.Model(cfg.AnthropicModel)
				}
			})
		}
	}
	return func(apiKey string) model.Model {
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = apiKey
			if cfg.OpenAIModel != "" {
				o.Model = cfg.OpenAIModel
			}
		})
	}
}
