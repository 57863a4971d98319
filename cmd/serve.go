package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/config"
	"github.com/spigell/talentpulse/internal/documents"
	"github.com/spigell/talentpulse/internal/filtering"
	"github.com/spigell/talentpulse/internal/scoring"
	"github.com/spigell/talentpulse/internal/server"
	"github.com/spigell/talentpulse/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}
	applyServeFlags(cmd, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting the talentpulse", zap.String("version", version), zap.String("addr", cfg.Addr()))

	client, err := newGeminiClient(ctx, cfg, log)
	if err != nil {
		return err
	}

	assistant, err := newAssistant(client, cfg, log)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(client, cfg.Embedding, cfg.Gemini.RequestsPerMinute, log)
	if err != nil {
		return err
	}

	if err := logFilters(cfg, log); err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	defer store.Close()

	parser := documents.NewParser(assistant, documents.NewStore(cfg.Files.SaveDir), documents.ParserOptions{
		MaxFileSize:        cfg.Files.MaxFileSize,
		MaxFilesPerRequest: cfg.Files.MaxFilesPerRequest,
		AllowedTypes:       cfg.Files.AllowedTypes,
	}, log)

	srv, err := server.New(cfg, server.Deps{
		Assistant: assistant,
		Scorer:    scoring.New(embedder, cfg.Matching.MinRelevance),
		Parser:    parser,
		Store:     store,
	}, log)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
}

// logFilters validates the batch pipeline settings once at startup.
func logFilters(cfg *config.Config, log *zap.Logger) error {
	fcfg := &filtering.Config{
		Mode:                 cfg.Matching.Mode,
		MinimumEligibleScore: cfg.Matching.MinimumEligibleScore,
		Threshold:            cfg.Matching.DefaultThreshold,
		Disabled:             cfg.Matching.DisabledFilters,
	}

	steps, err := filtering.Steps(fcfg)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(fcfg); err != nil {
			return fmt.Errorf("filter %s: %w", step.Name(), err)
		}
	}

	for _, status := range filtering.Describe(steps) {
		log.Info("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}
	return nil
}
