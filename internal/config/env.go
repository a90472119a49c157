package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment overrides. Unset variables leave the file value in place.
const (
	EnvPropagator           = "MUONSEED_PROPAGATOR"
	EnvScaleInnerStateError = "MUONSEED_SCALE_INNER_STATE_ERROR"
	EnvDebug                = "MUONSEED_DEBUG"
	EnvCleaner              = "MUONSEED_CLEANER"
	EnvGeometry             = "MUONSEED_GEOMETRY"
)

type envOverrides struct {
	Propagator           *string  `env:"MUONSEED_PROPAGATOR"`
	ScaleInnerStateError *float64 `env:"MUONSEED_SCALE_INNER_STATE_ERROR"`
	Debug                *bool    `env:"MUONSEED_DEBUG"`
	Cleaner              *string  `env:"MUONSEED_CLEANER"`
	Geometry             *string  `env:"MUONSEED_GEOMETRY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays MUONSEED_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}
	if o.Propagator != nil {
		cfg.Propagator = strings.TrimSpace(*o.Propagator)
	}
	if o.ScaleInnerStateError != nil {
		cfg.ScaleInnerStateError = *o.ScaleInnerStateError
	}
	if o.Debug != nil {
		cfg.Debug = *o.Debug
	}
	if o.Cleaner != nil {
		cfg.Cleaner = strings.TrimSpace(*o.Cleaner)
	}
	if o.Geometry != nil {
		cfg.Geometry = strings.TrimSpace(*o.Geometry)
	}
	return nil
}
