// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/moodchat/internal/api"
	"github.com/tomtom215/moodchat/internal/config"
	"github.com/tomtom215/moodchat/internal/conversation"
	"github.com/tomtom215/moodchat/internal/llm"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/providers"
	"github.com/tomtom215/moodchat/internal/recommend"
	"github.com/tomtom215/moodchat/internal/supervisor"
	ws "github.com/tomtom215/moodchat/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Bool("llm_configured", cfg.LLM.Enabled()).
		Bool("movies_configured", cfg.Providers.Movies.APIKey != "").
		Bool("songs_configured", cfg.Providers.Spotify.Enabled()).
		Msg("Starting Moodchat")

	app := newApp(cfg)

	tree, err := app.supervisorTree(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", app.server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// app holds the wired components.
type app struct {
	engine *conversation.Engine
	store  *conversation.Store
	movies *providers.Movies
	books  *providers.Books
	songs  *providers.Songs
	hub    *ws.Hub
	server *http.Server
}

func newApp(cfg *config.Config) *app {
	opts := providers.Options{
		Timeout:           cfg.Providers.RequestTimeout,
		RequestsPerSecond: cfg.Providers.RequestsPerSecond,
		CacheTTL:          cfg.Providers.CacheTTL,
	}
	a := &app{
		movies: providers.NewMovies(providers.MoviesConfig{
			BaseURL: cfg.Providers.Movies.BaseURL,
			Host:    cfg.Providers.Movies.Host,
			APIKey:  cfg.Providers.Movies.APIKey,
		}, opts),
		books: providers.NewBooks(cfg.Providers.Books.BaseURL, opts),
		songs: providers.NewSongs(providers.SongsConfig{
			BaseURL:      cfg.Providers.Spotify.BaseURL,
			TokenURL:     cfg.Providers.Spotify.TokenURL,
			ClientID:     cfg.Providers.Spotify.ClientID,
			ClientSecret: cfg.Providers.Spotify.ClientSecret,
		}, opts),
		store: conversation.NewStore(cfg.Conversation.MaxSessions, cfg.Conversation.IdleTTL),
		hub:   ws.NewHub(cfg.Security.CORSOrigins),
	}

	aggregator := recommend.NewAggregator(recommend.Config{
		Movies:  a.movies,
		Books:   a.books,
		Songs:   a.songs,
		Timeout: cfg.Providers.RequestTimeout,
	})

	a.engine = conversation.NewEngine(newGenerator(cfg.LLM), aggregator, a.store, conversation.Config{
		MaxRounds:     cfg.Conversation.MaxRounds,
		Threshold:     cfg.Conversation.Threshold,
		HistoryWindow: cfg.Conversation.HistoryWindow,
	})

	handler := api.NewHandler(a.engine, a.hub, cfg.Conversation.TurnTimeout)
	router := api.NewRouter(handler, api.CORSConfig{AllowedOrigins: cfg.Security.CORSOrigins})

	a.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	return a
}

// newGenerator returns nil when no language model is configured so the
// engine reports itself unavailable.
func newGenerator(cfg config.LLMConfig) llm.Generator {
	if !cfg.Enabled() {
		logging.Warn().Msg("No LLM API key configured, chat requests will return 503")
		return nil
	}
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create LLM client, chat requests will return 503")
		return nil
	}
	logging.Info().Str("model", client.Model()).Msg("LLM client configured")
	return client
}

func (a *app) supervisorTree(cfg *config.Config) (*supervisor.SupervisorTree, error) {
	treeCfg := supervisor.DefaultTreeConfig()
	if cfg.Server.ShutdownTimeout > 0 {
		treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddSessionService(supervisor.NewSweeperService(cfg.Conversation.SweepInterval,
		supervisor.SweepTarget{Name: "sessions", Sweep: a.store.Sweep},
		supervisor.SweepTarget{Name: "movies-cache", Sweep: a.movies.CleanupExpired},
		supervisor.SweepTarget{Name: "books-cache", Sweep: a.books.CleanupExpired},
		supervisor.SweepTarget{Name: "songs-cache", Sweep: a.songs.CleanupExpired},
	))
	tree.AddMessagingService(a.hub)
	tree.AddAPIService(supervisor.NewHTTPServerService(a.server, cfg.Server.ShutdownTimeout))
	return tree, nil
}
