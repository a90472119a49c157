package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/muonseed/internal/cleaner"
	"github.com/danmuck/muonseed/internal/field"
	"github.com/danmuck/muonseed/internal/propagation"
	"github.com/danmuck/muonseed/internal/seeding"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full run configuration of the seeding producer.
type Config struct {
	ScaleInnerStateError float64
	Propagator           string
	Debug                bool
	ValidHitsOnly        bool
	Cleaner              string
	// Geometry is the geometry file path, resolved against the config file.
	Geometry string
	Quality  seeding.QualityCuts
	Field    field.Config
}

type fileConfig struct {
	ScaleInnerStateError float64      `toml:"scale_inner_state_error"`
	Propagator           string       `toml:"propagator"`
	Debug                bool         `toml:"debug"`
	ValidHitsOnly        bool         `toml:"valid_hits_only"`
	Cleaner              string       `toml:"cleaner"`
	Geometry             string       `toml:"geometry"`
	Quality              fileQuality  `toml:"quality"`
	Field                field.Config `toml:"field"`
}

type fileQuality struct {
	Enabled           bool    `toml:"enabled"`
	MaxNormalizedChi2 float64 `toml:"max_normalized_chi2"`
	MinValidHits      int     `toml:"min_valid_hits"`
	MinPixelHits      int     `toml:"min_pixel_hits"`
}

func Default() Config {
	opts := seeding.DefaultOptions()
	return Config{
		ScaleInnerStateError: opts.ScaleInnerStateError,
		Propagator:           opts.Propagator,
		Cleaner:              cleaner.NamePassthrough,
	}
}

// Load applies defaults, then the file, then environment overrides, and
// validates the result.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads path over the defaults without consulting the
// environment or validating.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}

	if meta.IsDefined("scale_inner_state_error") {
		cfg.ScaleInnerStateError = raw.ScaleInnerStateError
	}
	if meta.IsDefined("propagator") {
		cfg.Propagator = strings.TrimSpace(raw.Propagator)
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("valid_hits_only") {
		cfg.ValidHitsOnly = raw.ValidHitsOnly
	}
	if meta.IsDefined("cleaner") {
		cfg.Cleaner = strings.TrimSpace(raw.Cleaner)
	}
	if meta.IsDefined("geometry") {
		cfg.Geometry = resolvePath(path, strings.TrimSpace(raw.Geometry))
	}
	if meta.IsDefined("quality") {
		cfg.Quality = seeding.QualityCuts{
			Enabled:           raw.Quality.Enabled,
			MaxNormalizedChi2: raw.Quality.MaxNormalizedChi2,
			MinValidHits:      raw.Quality.MinValidHits,
			MinPixelHits:      raw.Quality.MinPixelHits,
		}
	}
	if meta.IsDefined("field") {
		cfg.Field = raw.Field
	}
	return cfg, nil
}

func resolvePath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// Seeding returns the builder options carried by the config.
func (c Config) Seeding() seeding.Options {
	return seeding.Options{
		ScaleInnerStateError: c.ScaleInnerStateError,
		Propagator:           c.Propagator,
		Debug:                c.Debug,
		ValidHitsOnly:        c.ValidHitsOnly,
		Quality:              c.Quality,
	}
}

// Validate checks option ranges and that every named component exists.
func (c Config) Validate() error {
	if err := c.Seeding().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, ok := propagation.DefaultRegistry().Resolve(c.Propagator); !ok {
		return fmt.Errorf("%w: propagator %q is not built in", ErrInvalidConfig, c.Propagator)
	}
	if _, err := cleaner.ByName(c.Cleaner); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := field.New(c.Field); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
