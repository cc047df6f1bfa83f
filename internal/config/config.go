package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr      string
	AuthToken string
}

// NotionConfig holds the record-store connection settings.
type NotionConfig struct {
	Token      string
	DatabaseID string
	BaseURL    string
}

// SchemaConfig overrides the store-side property names and status labels.
// Empty fields keep the built-in defaults.
type SchemaConfig struct {
	TitleProp     string
	StatusProp    string
	CategoryProp  string
	DateProp      string
	NotesProp     string
	DoneStatus    string
	DefaultStatus string
}

// OpenAIConfig holds the language-model settings for the agent.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DigestConfig holds the daily digest scheduler settings.
type DigestConfig struct {
	Enabled bool
	Cron    string
}

// BarkConfig holds Bark push notification settings.
type BarkConfig struct {
	URL     string
	Enabled bool
}

// Config holds all runtime configuration for the daemon.
type Config struct {
	Mode          string
	Server        ServerConfig
	Notion        NotionConfig
	Schema        SchemaConfig
	OpenAI        OpenAIConfig
	Digest        DigestConfig
	Bark          BarkConfig
	Timezone      string
	LogLevel      string
	StateDir      string
	ShutdownGrace time.Duration
}

const (
	defaultAddr          = "0.0.0.0:8000"
	defaultTimezone      = "Asia/Seoul"
	defaultLogLevel      = "info"
	defaultModel         = "gpt-4o-mini"
	defaultDigestCron    = "0 9 * * *"
	defaultShutdownGrace = 5 * time.Second
)

func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		lower := strings.ToLower(val)
		return lower == "true" || lower == "1" || lower == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// Parse builds the configuration. Priority: CLI flags > environment
// variables > .env file > defaults.
func Parse() (*Config, error) {
	// .env is optional; check the working directory first, then the user
	// config directory.
	envFiles := []string{".env"}
	if configDir, err := os.UserConfigDir(); err == nil {
		envFiles = append(envFiles, filepath.Join(configDir, "notiond", ".env"))
	}
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Mode: getEnvString("MODE", "http"),
		Server: ServerConfig{
			Addr:      getEnvString("ADDR", fmt.Sprintf("0.0.0.0:%d", getEnvInt("PORT", 8000))),
			AuthToken: getEnvString("AUTH_TOKEN", ""),
		},
		Notion: NotionConfig{
			Token:      getEnvString("NOTION_TOKEN", ""),
			DatabaseID: getEnvString("NOTION_TASKS_DB_ID", ""),
			BaseURL:    getEnvString("NOTION_BASE_URL", ""),
		},
		Schema: SchemaConfig{
			TitleProp:     getEnvString("NOTION_PROP_TITLE", ""),
			StatusProp:    getEnvString("NOTION_PROP_STATUS", ""),
			CategoryProp:  getEnvString("NOTION_PROP_CATEGORY", ""),
			DateProp:      getEnvString("NOTION_PROP_DATE", ""),
			NotesProp:     getEnvString("NOTION_PROP_NOTES", ""),
			DoneStatus:    getEnvString("NOTION_STATUS_DONE", ""),
			DefaultStatus: getEnvString("NOTION_STATUS_DEFAULT", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnvString("OPENAI_API_KEY", ""),
			BaseURL: getEnvString("OPENAI_BASE_URL", ""),
			Model:   getEnvString("OPENAI_MODEL", defaultModel),
		},
		Digest: DigestConfig{
			Enabled: getEnvBool("DIGEST_ENABLED", false),
			Cron:    getEnvString("DIGEST_CRON", defaultDigestCron),
		},
		Bark: BarkConfig{
			URL:     getEnvString("BARK_URL", ""),
			Enabled: getEnvBool("BARK_ENABLED", false),
		},
		Timezone:      getEnvString("TZ", defaultTimezone),
		LogLevel:      getEnvString("LOG_LEVEL", defaultLogLevel),
		StateDir:      getEnvString("STATE_DIR", ""),
		ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", defaultShutdownGrace),
	}

	var mode, addr, logLevel, stateDir, timezone string
	var shutdownGrace time.Duration

	flag.StringVar(&mode, "mode", "", "run mode: http, mcp or both (overrides env)")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides env)")
	flag.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&stateDir, "state-dir", "", "directory for the execution audit database")
	flag.StringVar(&timezone, "tz", "", "IANA timezone for date normalization and the digest")
	flag.DurationVar(&shutdownGrace, "shutdown-grace", 0, "grace period when shutting down")
	flag.Parse()

	if mode != "" {
		cfg.Mode = mode
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "shutdown-grace" {
			cfg.ShutdownGrace = shutdownGrace
		}
	})

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, fmt.Errorf("resolve default state dir: %w", err)
		}
		cfg.StateDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot start with. Missing
// store credentials are fatal here rather than at first use.
func (c *Config) Validate() error {
	switch c.Mode {
	case "http", "mcp", "both", "":
	default:
		return fmt.Errorf("invalid mode %q: want http, mcp or both", c.Mode)
	}
	if strings.TrimSpace(c.Notion.Token) == "" {
		return errors.New("NOTION_TOKEN is not set; check your .env")
	}
	if strings.TrimSpace(c.Notion.DatabaseID) == "" {
		return errors.New("NOTION_TASKS_DB_ID is not set; check your .env")
	}
	return nil
}

func defaultStateDir() (string, error) {
	baseDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(baseDir, "notiond")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}
