package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	Clustering Clustering `mapstructure:"clustering"`
	Issues     Issues     `mapstructure:"issues"`
	Embedding  Embedding  `mapstructure:"embedding"`
	Tokenizer  Tokenizer  `mapstructure:"tokenizer"`
	Database   Database   `mapstructure:"database"`
	Feeds      Feeds      `mapstructure:"feeds"`
	Bias       Bias       `mapstructure:"bias"`
	Server     Server     `mapstructure:"server"`
	Logging    Logging    `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug   bool   `mapstructure:"debug"`
	DataDir string `mapstructure:"data_dir"`
}

// Clustering holds windowed DBSCAN configuration
type Clustering struct {
	Eps           float64 `mapstructure:"eps"`
	MinSamples    int     `mapstructure:"min_samples"`
	WindowDays    int     `mapstructure:"window_days"`
	Metric        string  `mapstructure:"metric"`
	Normalize     bool    `mapstructure:"normalize"`
	ContentPrefix int     `mapstructure:"content_prefix"`
}

// Issues holds issue extraction configuration
type Issues struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	NIssues             int     `mapstructure:"n_issues"`
	MinDF               int     `mapstructure:"min_df"`
	MaxDF               float64 `mapstructure:"max_df"`
	Transitive          bool    `mapstructure:"transitive"`
	MaxBatch            int     `mapstructure:"max_batch"`
}

// Embedding selects and configures the embedding backend
type Embedding struct {
	Provider   string `mapstructure:"provider"` // gemini, service or hashing
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	Timeout    string `mapstructure:"timeout"`
	Dimensions int    `mapstructure:"dimensions"`
}

// Tokenizer selects the noun extraction backend
type Tokenizer struct {
	Provider string `mapstructure:"provider"` // service or words
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  string `mapstructure:"timeout"`
}

// Database holds article storage configuration
type Database struct {
	Driver     string `mapstructure:"driver"` // postgres or sqlite
	URL        string `mapstructure:"url"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BatchSize  int    `mapstructure:"batch_size"`
}

// Feeds holds RSS collection configuration
type Feeds struct {
	File            string `mapstructure:"file"`
	UserAgent       string `mapstructure:"user_agent"`
	Timeout         string `mapstructure:"timeout"`
	MaxItemsPerFeed int    `mapstructure:"max_items_per_feed"`
	Concurrency     int    `mapstructure:"concurrency"`
}

// Bias holds press bias analysis configuration
type Bias struct {
	LexiconFile string `mapstructure:"lexicon_file"`
}

// Server holds HTTP API configuration
type Server struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var globalConfig *Config

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".newslens")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.SetEnvPrefix("NEWSLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.data_dir", ".newslens")

	viper.SetDefault("clustering.eps", 0.3)
	viper.SetDefault("clustering.min_samples", 2)
	viper.SetDefault("clustering.window_days", 3)
	viper.SetDefault("clustering.metric", "euclidean")
	viper.SetDefault("clustering.normalize", true)
	viper.SetDefault("clustering.content_prefix", 200)

	viper.SetDefault("issues.similarity_threshold", 0.3)
	viper.SetDefault("issues.n_issues", 10)
	viper.SetDefault("issues.min_df", 2)
	viper.SetDefault("issues.max_df", 0.9)
	viper.SetDefault("issues.transitive", false)
	viper.SetDefault("issues.max_batch", 5000)

	viper.SetDefault("embedding.provider", "gemini")
	viper.SetDefault("embedding.model", "text-embedding-004")
	viper.SetDefault("embedding.timeout", "60s")
	viper.SetDefault("embedding.dimensions", 512)

	viper.SetDefault("tokenizer.provider", "words")
	viper.SetDefault("tokenizer.timeout", "30s")

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.sqlite_path", "~/.newslens/articles.db")
	viper.SetDefault("database.batch_size", 1000)

	viper.SetDefault("feeds.file", "feeds.yaml")
	viper.SetDefault("feeds.user_agent", "newslens/1.0")
	viper.SetDefault("feeds.timeout", "30s")
	viper.SetDefault("feeds.max_items_per_feed", 50)
	viper.SetDefault("feeds.concurrency", 4)

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("embedding.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("database.url", []string{
		"DATABASE_URL",
		"POSTGRES_URL",
	})

	bindEnvKeys("tokenizer.endpoint", []string{
		"NLP_SERVICE_URL",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"NEWSLENS_DEBUG",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	config.App.DataDir = expandPath(config.App.DataDir)
	config.Database.SQLitePath = expandPath(config.Database.SQLitePath)
	config.Feeds.File = expandPath(config.Feeds.File)
	config.Bias.LexiconFile = expandPath(config.Bias.LexiconFile)

	if config.Embedding.Endpoint == "" && config.Embedding.Provider == "service" {
		config.Embedding.Endpoint = config.Tokenizer.Endpoint
	}

	durations := map[string]string{
		"embedding.timeout":    config.Embedding.Timeout,
		"tokenizer.timeout":    config.Tokenizer.Timeout,
		"feeds.timeout":        config.Feeds.Timeout,
		"server.read_timeout":  config.Server.ReadTimeout,
		"server.write_timeout": config.Server.WriteTimeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures the configuration is usable
func validateConfig(config *Config) error {
	var errors []string

	if config.Clustering.Eps <= 0 {
		errors = append(errors, fmt.Sprintf("clustering.eps must be positive, got %v", config.Clustering.Eps))
	}
	if config.Clustering.MinSamples < 1 {
		errors = append(errors, fmt.Sprintf("clustering.min_samples must be at least 1, got %d", config.Clustering.MinSamples))
	}
	if config.Clustering.WindowDays < 1 {
		errors = append(errors, fmt.Sprintf("clustering.window_days must be at least 1, got %d", config.Clustering.WindowDays))
	}
	switch config.Clustering.Metric {
	case "euclidean", "cosine":
	default:
		errors = append(errors, fmt.Sprintf("Unknown clustering metric: %s. Supported: euclidean, cosine", config.Clustering.Metric))
	}

	if config.Issues.NIssues < 1 {
		errors = append(errors, fmt.Sprintf("issues.n_issues must be at least 1, got %d", config.Issues.NIssues))
	}
	if config.Issues.MaxDF <= 0 || config.Issues.MaxDF > 1 {
		errors = append(errors, fmt.Sprintf("issues.max_df must be in (0, 1], got %v", config.Issues.MaxDF))
	}

	switch config.Embedding.Provider {
	case "gemini":
		// The key is checked when an embedder is built so that commands
		// without embeddings work without one.
	case "service":
		if config.Embedding.Endpoint == "" {
			errors = append(errors, "Embedding service requires an endpoint. Set embedding.endpoint or NLP_SERVICE_URL")
		}
	case "hashing":
	default:
		errors = append(errors, fmt.Sprintf("Unknown embedding provider: %s. Supported: gemini, service, hashing", config.Embedding.Provider))
	}

	switch config.Tokenizer.Provider {
	case "words":
	case "service":
		if config.Tokenizer.Endpoint == "" {
			errors = append(errors, "Tokenizer service requires an endpoint. Set tokenizer.endpoint or NLP_SERVICE_URL")
		}
	default:
		errors = append(errors, fmt.Sprintf("Unknown tokenizer provider: %s. Supported: words, service", config.Tokenizer.Provider))
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		errors = append(errors, fmt.Sprintf("Unknown database driver: %s. Supported: sqlite, postgres", config.Database.Driver))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Convenience getters for commonly used configuration values
func GetApp() App               { return Get().App }
func GetClustering() Clustering { return Get().Clustering }
func GetIssues() Issues         { return Get().Issues }
func GetEmbedding() Embedding   { return Get().Embedding }
func GetTokenizer() Tokenizer   { return Get().Tokenizer }
func GetDatabase() Database     { return Get().Database }
func GetFeeds() Feeds           { return Get().Feeds }
func GetServer() Server         { return Get().Server }
func GetLogging() Logging       { return Get().Logging }
func IsDebugMode() bool         { return Get().App.Debug }

// HasValidGeminiKey returns true if a usable Gemini API key is configured
func HasValidGeminiKey() bool {
	return isValidAPIKey(Get().Embedding.APIKey)
}

// ParseDuration parses a validated duration value, falling back to def.
func ParseDuration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	placeholders := []string{
		"your-api-key", "your-gemini-key", "YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME",
	}

	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}

	return true
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
