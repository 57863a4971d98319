package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentpulse/internal/config"
	"github.com/spigell/talentpulse/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate tags against job tags",
	Example: `  talentpulse score --candidate "Python,Django" --job "Python,Backend Development"
  talentpulse score --candidate "Go" --job "Kubernetes,Go" --embedding gemini`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("candidate", "c", "", "comma separated candidate tags")
	scoreCmd.Flags().StringP("job", "t", "", "comma separated job tags")
	scoreCmd.Flags().String("embedding", config.EmbeddingHash, "embedding provider: hash (offline) or gemini")
	scoreCmd.MarkFlagRequired("candidate")
	scoreCmd.MarkFlagRequired("job")
}

func score(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	candidate, _ := cmd.Flags().GetString("candidate")
	job, _ := cmd.Flags().GetString("job")
	provider, _ := cmd.Flags().GetString("embedding")

	embCfg := cfg.Embedding
	embCfg.Provider = strings.ToLower(strings.TrimSpace(provider))

	var client *genai.Client
	if embCfg.Provider == config.EmbeddingGemini {
		if client, err = newGeminiClient(ctx, cfg, log); err != nil {
			return err
		}
	}

	embedder, err := newEmbedder(client, embCfg, cfg.Gemini.RequestsPerMinute, log)
	if err != nil {
		return err
	}

	scorer := scoring.New(embedder, cfg.Matching.MinRelevance)
	m, err := scorer.Matrix(ctx, splitTags(candidate), splitTags(job))
	if err != nil {
		return err
	}

	res := m.Evaluate(scorer.MinRelevance())
	log.Debug("scored tags", zap.String("provider", embCfg.Provider), zap.Float64("max_similarity", res.MaxSimilarity))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "relevance:        %.1f%%\n", m.Relevance())
	fmt.Fprintf(out, "strict relevance: %.1f%%\n", m.StrictRelevance())
	fmt.Fprintf(out, "coverage:         %.1f%%\n", m.Coverage())
	fmt.Fprintf(out, "single pass:      relevant=%t score=%.1f%% max=%.3f top=%.3f\n",
		res.Relevant, res.Score, res.MaxSimilarity, res.AvgTopMatches)
	return nil
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
