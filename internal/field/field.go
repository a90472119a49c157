// Package field provides magnetic field models consumed by propagation.
// Positions are in cm and field values in tesla.
package field

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrUnknownModel  = errors.New("unknown field model")
	ErrInvalidConfig = errors.New("invalid field config")
)

// Field returns the field vector at a point. Implementations are read-only
// and safe for concurrent use.
type Field interface {
	Value(x r3.Vec) r3.Vec
}

// Uniform is a constant field everywhere.
type Uniform struct {
	B r3.Vec
}

func (u Uniform) Value(r3.Vec) r3.Vec { return u.B }

// Solenoid approximates a barrel solenoid: an axial core field inside the
// coil and a reversed axial field in the return yoke, zero elsewhere.
type Solenoid struct {
	Central         float64
	Radius          float64
	HalfLength      float64
	YokeField       float64
	YokeOuterRadius float64
}

func (s Solenoid) Value(x r3.Vec) r3.Vec {
	if math.Abs(x.Z) > s.HalfLength {
		return r3.Vec{}
	}
	r := math.Hypot(x.X, x.Y)
	switch {
	case r < s.Radius:
		return r3.Vec{Z: s.Central}
	case r < s.YokeOuterRadius:
		return r3.Vec{Z: s.YokeField}
	default:
		return r3.Vec{}
	}
}

// Config selects and parameterizes a field model.
type Config struct {
	Model           string     `toml:"model"`
	B               [3]float64 `toml:"b"`
	Central         float64    `toml:"central"`
	Radius          float64    `toml:"radius"`
	HalfLength      float64    `toml:"half_length"`
	YokeField       float64    `toml:"yoke_field"`
	YokeOuterRadius float64    `toml:"yoke_outer_radius"`
}

// New builds the configured model. An empty model name means no field.
func New(cfg Config) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Model)) {
	case "", "none":
		return Uniform{}, nil
	case "uniform":
		return Uniform{B: r3.Vec{X: cfg.B[0], Y: cfg.B[1], Z: cfg.B[2]}}, nil
	case "solenoid":
		if cfg.Radius <= 0 || cfg.HalfLength <= 0 {
			return nil, fmt.Errorf("%w: solenoid radius and half_length must be positive", ErrInvalidConfig)
		}
		if cfg.YokeOuterRadius != 0 && cfg.YokeOuterRadius < cfg.Radius {
			return nil, fmt.Errorf("%w: yoke_outer_radius below radius", ErrInvalidConfig)
		}
		return Solenoid{
			Central:         cfg.Central,
			Radius:          cfg.Radius,
			HalfLength:      cfg.HalfLength,
			YokeField:       cfg.YokeField,
			YokeOuterRadius: cfg.YokeOuterRadius,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, cfg.Model)
	}
}
