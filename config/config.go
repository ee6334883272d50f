// Package config reads process settings from the environment and an
// optional .env file. Semester dates are not settings; they live in package
// semester.
package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultTimezone     = "Asia/Kuala_Lumpur"
	defaultSourceURL    = "https://github.com/ynshung/usm-current-week"
	defaultRolloverSpec = "0 0 * * *"
)

type Config struct {
	Port          string
	SessionSecret []byte
	Environment   string
	Location      *time.Location
	SourceURL     string
	RolloverSpec  string
}

// IsProduction reports whether cookies must be marked Secure.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the given .env files (".env" when none are named) into the
// environment and then builds the Config from it. Variables already set in
// the environment win over the files. A missing file is only a warning.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from environment variables, filling defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         envOr("PORT", defaultPort),
		Environment:  envOr("ENVIRONMENT", "development"),
		SourceURL:    envOr("SOURCE_URL", defaultSourceURL),
		RolloverSpec: envOr("ROLLOVER_SPEC", defaultRolloverSpec),
	}

	tz := envOr("TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		// Sessions only carry the selected date, so losing them on restart is fine.
		cfg.SessionSecret = securecookie.GenerateRandomKey(32)
		if cfg.SessionSecret == nil {
			return Config{}, fmt.Errorf("failed to generate session secret")
		}
		log.Printf("Warning: SESSION_SECRET not set, using random key %s...", hex.EncodeToString(cfg.SessionSecret[:4]))
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
