package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/importer"
)

type config struct {
	Addr          string         `yaml:"addr"`
	DataDir       string         `yaml:"data_dir"`
	LogLevel      string         `yaml:"log_level"`
	LogFormat     string         `yaml:"log_format"`
	Sources       []atlas.Source `yaml:"sources"`
	MaxParallel   int            `yaml:"max_parallel"`
	SessionTTL    time.Duration  `yaml:"session_ttl"`
	CheckInterval time.Duration  `yaml:"check_interval"`
	Cache         cacheConfig    `yaml:"cache"`
	TLS           tlsConfig      `yaml:"tls"`
	MCP           mcpConfig      `yaml:"mcp"`
}

type cacheConfig struct {
	Size          int           `yaml:"size"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

type tlsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	CertFile string   `yaml:"cert_file"`
	KeyFile  string   `yaml:"key_file"`
	Hosts    []string `yaml:"hosts"` // self-signed cert SANs when no cert_file
}

type mcpConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func defaultConfig() config {
	return config{
		Addr:       ":8420",
		DataDir:    "data",
		LogLevel:   "info",
		LogFormat:  "text",
		SessionTTL: 30 * time.Minute,
		Cache:      cacheConfig{Size: 512, TTL: 10 * time.Minute},
		MCP:        mcpConfig{Enabled: true, Path: "/mcp"},
	}
}

// loadEnv reads .env files; missing files are not an error.
func loadEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// loadConfig reads path over the defaults, then applies environment
// overrides. A missing file yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultSources(cfg.DataDir)
	}
	if cfg.MCP.Path == "" {
		cfg.MCP.Path = "/mcp"
	}
	if cfg.SessionTTL <= 0 {
		return cfg, fmt.Errorf("session_ttl must be positive, got %s", cfg.SessionTTL)
	}
	for _, s := range cfg.Sources {
		if err := s.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	return cfg, nil
}

func applyEnv(cfg *config) error {
	if v := os.Getenv("VAXATLAS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("VAXATLAS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Cache.RedisDB = n
	}
	return nil
}

// defaultSources points at the layout written by "vaxatlas import".
func defaultSources(dataDir string) []atlas.Source {
	return []atlas.Source{
		{ID: "couverture-regions", Kind: atlas.KindCoverage, Granularity: "region",
			Location: filepath.Join(dataDir, "couverture-regions")},
		{ID: "couverture-departements", Kind: atlas.KindCoverage, Granularity: "department",
			Location: filepath.Join(dataDir, "couverture-departements")},
		{ID: "couverture-france", Kind: atlas.KindCoverage, Granularity: "nation",
			Location: filepath.Join(dataDir, "couverture-france")},
		{ID: "geo-regions", Kind: atlas.KindRegions,
			Location: filepath.Join(dataDir, importer.BoundariesDir, "regions.geojson")},
		{ID: "geo-departements", Kind: atlas.KindDepartments,
			Location: filepath.Join(dataDir, importer.BoundariesDir, "departements.geojson")},
	}
}

// setupLogger builds the process logger. Output always goes to stderr.
func setupLogger(level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
