// Package eventsetup provides the per-event service record: the field,
// the geometry and the named propagators seeding borrows for one event.
package eventsetup

import (
	"errors"
	"fmt"

	"github.com/danmuck/muonseed/internal/field"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/propagation"
)

var ErrUnknownPropagator = errors.New("unknown propagator")

// Record is a read-only snapshot shared by every event of a run.
type Record struct {
	field       field.Field
	geometry    *geom.Geometry
	propagators *propagation.Registry
}

// New builds a record. A nil field means no field; a nil registry means
// the built-in propagators.
func New(f field.Field, g *geom.Geometry, reg *propagation.Registry) *Record {
	if f == nil {
		f = field.Uniform{}
	}
	if reg == nil {
		reg = propagation.DefaultRegistry()
	}
	return &Record{field: f, geometry: g, propagators: reg}
}

// Load reads the geometry file and builds the field model.
func Load(geometryPath string, fc field.Config, reg *propagation.Registry) (*Record, error) {
	g, err := geom.LoadTOML(geometryPath)
	if err != nil {
		return nil, err
	}
	f, err := field.New(fc)
	if err != nil {
		return nil, err
	}
	return New(f, g, reg), nil
}

func (r *Record) Field() field.Field {
	return r.field
}

func (r *Record) Geometry() *geom.Geometry {
	return r.geometry
}

// Propagator resolves a propagator by registered name.
func (r *Record) Propagator(name string) (propagation.Propagator, error) {
	p, ok := r.propagators.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPropagator, name)
	}
	return p, nil
}

// Propagators lists the registered names in sorted order.
func (r *Record) Propagators() []string {
	return r.propagators.Names()
}
