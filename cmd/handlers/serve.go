package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newslens/internal/categorization"
	"newslens/internal/clustering"
	"newslens/internal/config"
	"newslens/internal/issues"
	"newslens/internal/logger"
	"newslens/internal/persistence"
	"newslens/internal/server"
)

// NewServeCmd creates the serve command for starting the HTTP API
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
		noDB bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the newslens HTTP API.

Endpoints:
  POST /api/clusters  articles JSON -> clustered articles and summary
  POST /api/issues    articles and/or period filter -> issues
  GET  /health        liveness and database check

Examples:
  # Start server on default port 8080
  newslens serve

  # Start on custom port without a database
  newslens serve --port 3000 --no-db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host, noDB)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 8080)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "serve without the article database")

	return cmd
}

func runServe(ctx context.Context, port int, host string, noDB bool) error {
	cfg := config.Get()

	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	embedder, closeEmbedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()
	clusterer, err := clustering.NewArticleClusterer(embedder, clusteringConfig(cfg.Clustering))
	if err != nil {
		return err
	}

	tokenizer, err := newTokenizer(cfg.Tokenizer)
	if err != nil {
		return err
	}
	extractor, err := issues.NewExtractor(tokenizer, issuesConfig(cfg.Issues))
	if err != nil {
		return err
	}

	deps := server.Deps{
		Clusterer: clusterer,
		Extractor: extractor,
		Hierarchy: categorization.DefaultHierarchy(),
		MaxBatch:  cfg.Issues.MaxBatch,
	}

	var repo persistence.ArticleRepository
	if !noDB {
		repo, err = openRepository(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = repo.Close() }()
		deps.Repo = repo
		logger.Info("Database connection successful", "driver", cfg.Database.Driver)
	}

	srv := server.New(deps, serverCfg)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on http://%s:%d", serverCfg.Host, serverCfg.Port))
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-shutdown:
		logger.Info("Server shutdown initiated", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("Server stopped successfully")
	}

	return nil
}
