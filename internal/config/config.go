// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"

	"assesscore/internal/apperr"
)

// Config is the complete application configuration.
type Config struct {
	Database           DatabaseConfig
	Server             ServerConfig
	IRT                IRTConfig
	Scoring            ScoringConfig
	AssessmentTTLHours int
}

// DatabaseConfig holds the Postgres repository adapter's connection settings.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds the thin external HTTP surface's settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// IRTConfig holds the adaptive-testing defaults from §4.2.
type IRTConfig struct {
	MinItems   int
	MaxItems   int
	TargetSEM  float64
	PriorMu    float64
	PriorSigma float64
}

// ScoringConfig holds the §4.3 Open-Question parameters that the spec
// requires be exposed rather than hard-coded.
type ScoringConfig struct {
	// LikertForcedChoiceWeight is the weight given to the Likert component
	// when a scale has both Likert and forced-choice evidence (default 0.7,
	// per spec §4.3; the forced-choice component gets 1-weight).
	LikertForcedChoiceWeight float64
}

// Load reads configuration from the environment, applying defaults for
// everything the core can run without.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		IRT: IRTConfig{
			MinItems:   getEnvIntOrDefault("IRT_MIN_ITEMS", 5),
			MaxItems:   getEnvIntOrDefault("IRT_MAX_ITEMS", 20),
			TargetSEM:  getEnvFloatOrDefault("IRT_TARGET_SEM", 0.35),
			PriorMu:    getEnvFloatOrDefault("IRT_PRIOR_MU", 0.0),
			PriorSigma: getEnvFloatOrDefault("IRT_PRIOR_SIGMA", 1.0),
		},
		Scoring: ScoringConfig{
			LikertForcedChoiceWeight: getEnvFloatOrDefault("SCORING_LIKERT_FC_WEIGHT", 0.7),
		},
		AssessmentTTLHours: getEnvIntOrDefault("ASSESSMENT_TTL_HOURS", 48),
	}

	if err := validate(cfg); err != nil {
		return nil, apperr.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.IRT.MinItems <= 0 || cfg.IRT.MaxItems < cfg.IRT.MinItems {
		return apperr.New(apperr.CodeInputInvalid, "IRT_MIN_ITEMS/IRT_MAX_ITEMS out of order")
	}
	if cfg.IRT.TargetSEM <= 0 {
		return apperr.New(apperr.CodeInputInvalid, "IRT_TARGET_SEM must be positive")
	}
	if cfg.Scoring.LikertForcedChoiceWeight < 0 || cfg.Scoring.LikertForcedChoiceWeight > 1 {
		return apperr.New(apperr.CodeInputInvalid, "SCORING_LIKERT_FC_WEIGHT must be in [0,1]")
	}
	if cfg.AssessmentTTLHours <= 0 {
		return apperr.New(apperr.CodeInputInvalid, "ASSESSMENT_TTL_HOURS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
