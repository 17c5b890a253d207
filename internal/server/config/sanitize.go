package config

import (
	"slices"

	"github.com/yndnr/samus-go/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with seed values masked.
//
// This is used for logging configuration without exposing stored data.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	if cfg.Log.LogValues {
		return &sanitized
	}

	sanitized.Store.Seed = slices.Clone(cfg.Store.Seed)
	for i := range sanitized.Store.Seed {
		sanitized.Store.Seed[i].Value = logger.MaskValue(sanitized.Store.Seed[i].Value)
	}
	return &sanitized
}
