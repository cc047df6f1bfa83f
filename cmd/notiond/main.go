package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edkim3275/notion-todo-AI-agent/internal/agent"
	"github.com/edkim3275/notion-todo-AI-agent/internal/api"
	"github.com/edkim3275/notion-todo-AI-agent/internal/config"
	"github.com/edkim3275/notion-todo-AI-agent/internal/core"
	"github.com/edkim3275/notion-todo-AI-agent/internal/digest"
	"github.com/edkim3275/notion-todo-AI-agent/internal/logging"
	notionmcp "github.com/edkim3275/notion-todo-AI-agent/internal/mcp"
	"github.com/edkim3275/notion-todo-AI-agent/internal/notify"
	"github.com/edkim3275/notion-todo-AI-agent/internal/notion"
	"github.com/edkim3275/notion-todo-AI-agent/internal/store"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("load timezone", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}

	baseCtx := context.Background()
	audit, err := store.Open(baseCtx, cfg.StateDir)
	if err != nil {
		logger.Error("open audit store", "err", err)
		os.Exit(1)
	}
	defer audit.DB.Close()

	client, err := notion.NewClient(notion.Config{
		Token:      cfg.Notion.Token,
		DatabaseID: cfg.Notion.DatabaseID,
		BaseURL:    cfg.Notion.BaseURL,
	})
	if err != nil {
		logger.Error("create notion client", "err", err)
		os.Exit(1)
	}

	svc := core.NewService(client, buildSchema(cfg.Schema), logger)

	var agentRunner *agent.Agent
	if cfg.OpenAI.APIKey != "" {
		agentRunner, err = agent.New(agent.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		}, svc, logger, location)
		if err != nil {
			logger.Error("create agent", "err", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set; /agent endpoint disabled")
	}

	if cfg.Digest.Enabled {
		notifier := buildNotifier(cfg, logger)
		digestScheduler, err := digest.New(cfg.Digest.Cron, svc, notifier, logger, location)
		if err != nil {
			logger.Error("create digest scheduler", "err", err)
			os.Exit(1)
		}
		digestScheduler.Start()
		defer func() {
			stopCtx := digestScheduler.Stop()
			select {
			case <-stopCtx.Done():
			case <-time.After(cfg.ShutdownGrace):
				logger.Warn("digest scheduler stop timed out")
			}
		}()
	}

	switch cfg.Mode {
	case "http", "":
		runHTTPMode(cfg, svc, agentRunner, audit, logger, location)
	case "mcp":
		runMCPMode(svc, logger, location)
	case "both":
		runBothMode(cfg, svc, agentRunner, audit, logger, location)
	default:
		logger.Error("invalid mode", "mode", cfg.Mode, "valid", []string{"http", "mcp", "both"})
		os.Exit(1)
	}
}

func buildSchema(overrides config.SchemaConfig) core.Schema {
	schema := core.DefaultSchema()
	if overrides.TitleProp != "" {
		schema.TitleProp = overrides.TitleProp
	}
	if overrides.StatusProp != "" {
		schema.StatusProp = overrides.StatusProp
	}
	if overrides.CategoryProp != "" {
		schema.CategoryProp = overrides.CategoryProp
	}
	if overrides.DateProp != "" {
		schema.DateProp = overrides.DateProp
	}
	if overrides.NotesProp != "" {
		schema.NotesProp = overrides.NotesProp
	}
	if overrides.DoneStatus != "" {
		schema.DoneStatus = overrides.DoneStatus
	}
	if overrides.DefaultStatus != "" {
		schema.DefaultStatus = overrides.DefaultStatus
	}
	return schema
}

func buildNotifier(cfg *config.Config, logger *slog.Logger) notify.Notifier {
	if cfg.Bark.Enabled && cfg.Bark.URL != "" {
		bark, err := notify.NewBarkNotifier(cfg.Bark.URL)
		if err == nil {
			return bark
		}
		logger.Warn("create bark notifier", "err", err)
	}
	return notify.NoOpNotifier{}
}

func runHTTPMode(cfg *config.Config, svc *core.Service, agentRunner *agent.Agent, audit *store.Store, logger *slog.Logger, location *time.Location) {
	server, err := api.NewServer(cfg.Server.Addr, cfg.Server.AuthToken, svc, agentRunner, audit, logger, location)
	if err != nil {
		logger.Error("create server", "err", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Info("received signal", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "err", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
}

func runMCPMode(svc *core.Service, logger *slog.Logger, location *time.Location) {
	mcpServer := notionmcp.NewMCPServer(svc, logger, location)
	if err := mcpServer.Run(); err != nil {
		logger.Error("mcp server error", "err", err)
		os.Exit(1)
	}
}

func runBothMode(cfg *config.Config, svc *core.Service, agentRunner *agent.Agent, audit *store.Store, logger *slog.Logger, location *time.Location) {
	mcpServer := notionmcp.NewMCPServer(svc, logger, location)
	mcpErr := make(chan error, 1)
	go func() {
		if err := mcpServer.Run(); err != nil {
			mcpErr <- err
		}
	}()

	server, err := api.NewServer(cfg.Server.Addr, cfg.Server.AuthToken, svc, agentRunner, audit, logger, location)
	if err != nil {
		logger.Error("create server", "err", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Info("received signal", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "err", err)
	case err := <-mcpErr:
		logger.Error("mcp server error", "err", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("shutdown complete")
}
