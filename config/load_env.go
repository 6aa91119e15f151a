package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

const ENV_DIR = "config/envs"

// LoadEnv loads config/envs/.env.<env> into the process environment.
// Variables already set in the environment win over the file.
func LoadEnv(env string) {
	if env == "" {
		env = os.Getenv("APP_ENV")
	}
	if env == "" {
		env = DEFAULT_ENV
	}

	envFile := filepath.Join(ENV_DIR, ".env."+env)
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
		return
	}

	slog.Debug("[Config] Loaded env file", slog.String("file", envFile))
}
