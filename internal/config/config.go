package config

import "os"

const (
	defaultDBPath  = "./pricing.db"
	defaultPort    = "8080"
	defaultDataDir = "./data"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv  string
	DBPath  string
	Port    string
	DataDir string
}

// IsDev reports whether the app runs in local development mode, where
// migrations and seed data are applied automatically at startup.
func (c Config) IsDev() bool {
	return c.AppEnv != "production"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		AppEnv:  os.Getenv("APP_ENV"),
		DBPath:  os.Getenv("DB_PATH"),
		Port:    os.Getenv("PORT"),
		DataDir: os.Getenv("DATA_DIR"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}

	return cfg
}
