package geom

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r3"
)

type fileGeometry struct {
	Surfaces []fileSurface `toml:"surface"`
}

type fileSurface struct {
	ID     DetID      `toml:"id"`
	Origin [3]float64 `toml:"origin"`
	Normal [3]float64 `toml:"normal"`
	UAxis  [3]float64 `toml:"u_axis"`
	HalfU  float64    `toml:"half_u"`
	HalfV  float64    `toml:"half_v"`
}

// LoadTOML reads a geometry description file.
func LoadTOML(path string) (*Geometry, error) {
	var raw fileGeometry
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("geometry load failed (%s): %w", path, err)
	}
	return build(raw)
}

// DecodeTOML parses a geometry description held in memory.
func DecodeTOML(data string) (*Geometry, error) {
	var raw fileGeometry
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("geometry parse failed: %w", err)
	}
	return build(raw)
}

func build(raw fileGeometry) (*Geometry, error) {
	planes := make([]Plane, 0, len(raw.Surfaces))
	for i, s := range raw.Surfaces {
		if s.ID == 0 {
			return nil, fmt.Errorf("surface[%d] invalid: %w: missing id", i, ErrInvalidDetID)
		}
		p, err := NewPlane(s.ID, vec(s.Origin), vec(s.Normal), vec(s.UAxis), s.HalfU, s.HalfV)
		if err != nil {
			return nil, fmt.Errorf("surface[%d] invalid: %w", i, err)
		}
		planes = append(planes, p)
	}
	return NewGeometry(planes...)
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
