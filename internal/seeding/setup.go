package seeding

import (
	"errors"
	"fmt"

	"github.com/danmuck/muonseed/internal/field"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/propagation"
	"github.com/danmuck/muonseed/internal/trajectory"
)

var ErrPropagatorUnavailable = errors.New("propagator unavailable")

// Services hands out the per-event field, geometry and propagators. The
// returned values are borrowed for one event and never mutated.
type Services interface {
	Field() field.Field
	Geometry() *geom.Geometry
	Propagator(name string) (propagation.Propagator, error)
}

// Setup is the borrowed per-event context threaded through the strategies.
type Setup struct {
	Field      field.Field
	Geometry   *geom.Geometry
	Propagator propagation.Propagator
}

// ResolveSetup binds the event context. Any problem with the named
// propagator is a configuration fault for the whole event.
func ResolveSetup(svc Services, propagator string) (Setup, error) {
	if svc == nil {
		return Setup{}, fmt.Errorf("%w: %q: no event services", ErrPropagatorUnavailable, propagator)
	}
	p, err := svc.Propagator(propagator)
	if err != nil {
		return Setup{}, fmt.Errorf("%w: %q: %v", ErrPropagatorUnavailable, propagator, err)
	}
	if p == nil {
		return Setup{}, fmt.Errorf("%w: %q resolved to nil", ErrPropagatorUnavailable, propagator)
	}
	if p.Name() != propagator {
		return Setup{}, fmt.Errorf("%w: %q resolved to %q", ErrPropagatorUnavailable, propagator, p.Name())
	}
	return Setup{Field: svc.Field(), Geometry: svc.Geometry(), Propagator: p}, nil
}

// Propagate extrapolates s to the surface of id.
func (s Setup) Propagate(state trajectory.State, id geom.DetID) (trajectory.State, error) {
	return propagation.ToDetector(s.Propagator, s.Geometry, s.Field, state, id)
}
