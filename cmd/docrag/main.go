// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/docrag"
	"github.com/poiesic/docrag/ai"
	"github.com/poiesic/docrag/server"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "docrag",
		Usage: "Document ingestion and retrieval-augmented question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with ingestion workers",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						EnvVars: []string{"DOCRAG_DB"},
						Value:   "./data/db",
					},
					&cli.StringFlag{
						Name:    "blob-dir",
						Usage:   "Directory for uploaded document blobs",
						EnvVars: []string{"DOCRAG_BLOB_DIR"},
						Value:   "./data/blobs",
					},
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "HTTP listen address",
						EnvVars: []string{"DOCRAG_LISTEN"},
						Value:   ":8000",
					},
					&cli.StringFlag{
						Name:    "ai-host",
						Usage:   "Host URL for all AI services",
						EnvVars: []string{"DOCRAG_AI_HOST"},
						Value:   "http://localhost:11434",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"DOCRAG_EMBEDDING_MODEL"},
						Value:   "nomic-embed-text",
					},
					&cli.StringFlag{
						Name:    "generator-model",
						Usage:   "Answer generation model name",
						EnvVars: []string{"DOCRAG_GENERATOR_MODEL"},
						Value:   "llama3.2",
					},
					&cli.StringFlag{
						Name:    "classifier-model",
						Usage:   "Sentiment classifier model name",
						EnvVars: []string{"DOCRAG_CLASSIFIER_MODEL"},
						Value:   "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent ingestion workers",
						EnvVars: []string{"DOCRAG_WORKERS"},
						Value:   2,
					},
					&cli.DurationFlag{
						Name:    "model-timeout",
						Usage:   "Timeout for each model call",
						EnvVars: []string{"DOCRAG_MODEL_TIMEOUT"},
						Value:   120 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithClassifierModel(c.String("classifier-model")),
		ai.WithTimeout(c.Duration("model-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	sys, err := docrag.NewSystem(c.String("db"), c.String("blob-dir"),
		docrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	coordinator, err := sys.NewCoordinator()
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	orchestrator, err := sys.NewOrchestrator()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	analyzer, err := sys.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	workers, err := sys.NewWorkers(c.Int("workers"))
	if err != nil {
		return fmt.Errorf("failed to create workers: %w", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	if err := workers.Start(workerCtx); err != nil {
		stopWorkers()
		return fmt.Errorf("failed to start workers: %w", err)
	}

	srv := &http.Server{
		Addr:    c.String("listen"),
		Handler: server.NewServer(coordinator, sys.DocumentRepository(), orchestrator, analyzer).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		stopWorkers()
		workers.Release()
		return fmt.Errorf("http server failed: %w", err)
	}

	// Stop accepting requests, then drain the worker loops.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "err", err)
	}

	stopWorkers()
	workers.Release()
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
