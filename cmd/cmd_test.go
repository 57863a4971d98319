package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/talentpulse/internal/config"
	"github.com/spigell/talentpulse/internal/filtering"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestScoreWithHashEmbedder(t *testing.T) {
	t.Setenv("TALENTPULSE_EMBEDDING_PROVIDER", config.EmbeddingHash)
	t.Setenv("TALENTPULSE_LOG_LEVEL", "error")

	out := execute(t, "score", "-c", "Python,Django", "-t", "Python,Backend Development", "--embedding", "hash")

	assert.Contains(t, out, "relevance:")
	assert.Contains(t, out, "strict relevance:")
	assert.Contains(t, out, "coverage:")
	assert.Contains(t, out, "single pass:      relevant=")
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	assert.Equal(t, "talentpulse version: unknown\n", out)
}

func TestApplyServeFlags(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Host: "0.0.0.0", Port: 8000}}

	require.NoError(t, serveCmd.Flags().Set("host", "127.0.0.1"))
	require.NoError(t, serveCmd.Flags().Set("port", "9090"))
	t.Cleanup(func() {
		_ = serveCmd.Flags().Set("host", "")
		_ = serveCmd.Flags().Set("port", "0")
	})

	applyServeFlags(serveCmd, cfg)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLogFiltersRejectsUnknownFilter(t *testing.T) {
	cfg := &config.Config{Matching: config.MatchingConfig{
		Mode:                 filtering.ModeStrict,
		MinimumEligibleScore: 60,
		DefaultThreshold:     50,
		DisabledFilters:      []string{"salary"},
	}}

	require.Error(t, logFilters(cfg, zaptest.NewLogger(t)))

	cfg.Matching.DisabledFilters = []string{"tag_relevance"}
	require.NoError(t, logFilters(cfg, zaptest.NewLogger(t)))
}
