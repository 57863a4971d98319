// Package config builds the process configuration once at start-up from defaults,
// an optional config file, .env files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/spigell/talentpulse/internal/secrets"
)

const (
	EmbeddingGemini = "gemini"
	EmbeddingHash   = "hash"

	MatchingStrict     = "strict"
	MatchingSinglePass = "single-pass"

	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	apiKeySlots = 3
)

type Config struct {
	Debug     bool            `mapstructure:"debug"`
	JSON      bool            `mapstructure:"json"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Files     FilesConfig     `mapstructure:"files"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type GeminiConfig struct {
	APIKeys           []string `mapstructure:"api-keys"`
	APIKeyFiles       []string `mapstructure:"api-key-files"`
	Model             string   `mapstructure:"model"`
	Temperature       float32  `mapstructure:"temperature"`
	MaxOutputTokens   int32    `mapstructure:"max-output-tokens"`
	MaxRetries        int      `mapstructure:"max-retries"`
	RequestsPerMinute int      `mapstructure:"requests-per-minute"`
	MaxLogLength      int      `mapstructure:"max-log-length"`
	SkipKeyProbe      bool     `mapstructure:"skip-key-probe"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

type FilesConfig struct {
	SaveDir            string   `mapstructure:"save-dir"`
	MaxFileSize        int64    `mapstructure:"max-file-size"`
	MaxFilesPerRequest int      `mapstructure:"max-files-per-request"`
	AllowedTypes       []string `mapstructure:"allowed-types"`
}

type MatchingConfig struct {
	Mode                 string  `mapstructure:"mode"`
	MinimumEligibleScore float64 `mapstructure:"minimum-eligible-score"`
	MinRelevance         float64 `mapstructure:"min-relevance"`
	DefaultThreshold     float64 `mapstructure:"default-threshold"`
	// DisabledFilters names batch filters to skip, e.g. tag_relevance.
	DisabledFilters []string `mapstructure:"disabled-filters"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

var defaults = map[string]any{
	"server.host":                     "0.0.0.0",
	"server.port":                     8000,
	"server.read-timeout":             30 * time.Second,
	"server.write-timeout":            5 * time.Minute,
	"server.shutdown-timeout":         15 * time.Second,
	"log.level":                       "info",
	"log.file":                        "",
	"gemini.api-keys":                 []string{},
	"gemini.api-key-files":            []string{},
	"gemini.model":                    "gemini-2.0-flash",
	"gemini.temperature":              0.2,
	"gemini.max-output-tokens":        10000,
	"gemini.max-retries":              3,
	"gemini.requests-per-minute":      0,
	"gemini.max-log-length":           200,
	"gemini.skip-key-probe":           false,
	"embedding.provider":              EmbeddingGemini,
	"embedding.model":                 "text-embedding-004",
	"embedding.dimensions":            256,
	"files.save-dir":                  "downloaded_files",
	"files.max-file-size":             10 * 1024 * 1024,
	"files.max-files-per-request":     10,
	"files.allowed-types":             []string{"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	"matching.mode":                   MatchingStrict,
	"matching.minimum-eligible-score": 60,
	"matching.min-relevance":          0.65,
	"matching.default-threshold":      50,
	"matching.disabled-filters":       []string{},
	"storage.driver":                  StorageFile,
	"storage.path":                    "candidate_data.txt",
	"storage.dsn":                     "",
}

// Environment names kept from the service this one replaces.
var legacyEnv = map[string]string{
	"gemini.model":                    "MODEL",
	"gemini.max-output-tokens":        "MAX_OUTPUT_TOKENS",
	"gemini.temperature":              "TEMPERATURE",
	"files.save-dir":                  "SAVE_DIR",
	"files.max-file-size":             "MAX_FILE_SIZE",
	"files.max-files-per-request":     "MAX_FILES_PER_REQUEST",
	"files.allowed-types":             "ALLOWED_FILE_TYPES",
	"matching.minimum-eligible-score": "MINIMUM_ELIGIBLE_SCORE",
	"log.level":                       "LOG_LEVEL",
	"log.file":                        "LOG_FILE",
	"server.host":                     "API_HOST",
	"server.port":                     "API_PORT",
	"debug":                           "DEBUG_MODE",
}

// LoadDotEnv loads the given .env files into the process environment, skipping
// files that do not exist. Existing variables are not overridden.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// Load registers defaults and environment bindings on v, decodes the result and validates it.
// Config files must already be read into v by the caller.
func Load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("TALENTPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "TALENTPULSE_"+envName(key), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}
	for i := 1; i <= apiKeySlots; i++ {
		if err := v.BindEnv(fmt.Sprintf("gemini.api-key-%d", i), fmt.Sprintf("API_KEY_%d", i)); err != nil {
			return nil, fmt.Errorf("binding API_KEY_%d: %w", i, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	for i := 1; i <= apiKeySlots; i++ {
		if key := v.GetString(fmt.Sprintf("gemini.api-key-%d", i)); key != "" {
			cfg.Gemini.APIKeys = append(cfg.Gemini.APIKeys, key)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// APIKeySources lists every configured Gemini key source in priority order.
func (c *Config) APIKeySources() []secrets.Source {
	sources := make([]secrets.Source, 0, len(c.Gemini.APIKeys)+len(c.Gemini.APIKeyFiles))
	for i, key := range c.Gemini.APIKeys {
		sources = append(sources, secrets.Source{Name: fmt.Sprintf("gemini api key #%d", i+1), Value: key})
	}
	for _, file := range c.Gemini.APIKeyFiles {
		sources = append(sources, secrets.Source{Name: "gemini api key", File: file})
	}
	return sources
}

// NeedsGemini reports whether any configured component talks to the Gemini API
// outside of text generation.
func (c *Config) NeedsGemini() bool {
	return c.Embedding.Provider == EmbeddingGemini
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("gemini.max-output-tokens must be positive"))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("gemini.temperature must be in 0..2, got %.2f", c.Gemini.Temperature))
	}
	if c.Files.SaveDir == "" {
		errs = append(errs, fmt.Errorf("files.save-dir is required"))
	}
	if c.Files.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("files.max-file-size must be positive"))
	}
	if c.Files.MaxFilesPerRequest <= 0 {
		errs = append(errs, fmt.Errorf("files.max-files-per-request must be positive"))
	}
	if len(c.Files.AllowedTypes) == 0 {
		errs = append(errs, fmt.Errorf("files.allowed-types must not be empty"))
	}
	if !inPercent(c.Matching.MinimumEligibleScore) {
		errs = append(errs, fmt.Errorf("matching.minimum-eligible-score must be in 0..100"))
	}
	if !inPercent(c.Matching.DefaultThreshold) {
		errs = append(errs, fmt.Errorf("matching.default-threshold must be in 0..100"))
	}
	if c.Matching.MinRelevance <= 0 || c.Matching.MinRelevance > 1 {
		errs = append(errs, fmt.Errorf("matching.min-relevance must be in (0, 1]"))
	}
	switch c.Matching.Mode {
	case MatchingStrict, MatchingSinglePass:
	default:
		errs = append(errs, fmt.Errorf("matching.mode must be %q or %q, got %q", MatchingStrict, MatchingSinglePass, c.Matching.Mode))
	}
	switch c.Embedding.Provider {
	case EmbeddingGemini, EmbeddingHash:
	default:
		errs = append(errs, fmt.Errorf("embedding.provider must be %q or %q, got %q", EmbeddingGemini, EmbeddingHash, c.Embedding.Provider))
	}
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver))
		}
	case StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be one of file, sqlite, postgres, got %q", c.Storage.Driver))
	}

	return errors.Join(errs...)
}

func (c *Config) normalize() {
	c.Gemini.APIKeys = trimAll(c.Gemini.APIKeys)
	c.Gemini.APIKeyFiles = trimAll(c.Gemini.APIKeyFiles)
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	c.Embedding.Provider = strings.ToLower(strings.TrimSpace(c.Embedding.Provider))
	c.Matching.Mode = strings.ToLower(strings.TrimSpace(c.Matching.Mode))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Files.SaveDir = strings.TrimSpace(c.Files.SaveDir)

	var types []string
	for _, entry := range c.Files.AllowedTypes {
		types = append(types, strings.Split(entry, ",")...)
	}
	c.Files.AllowedTypes = trimAll(types)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envName(key string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

func inPercent(v float64) bool {
	return v >= 0 && v <= 100
}
