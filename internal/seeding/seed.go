package seeding

import (
	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/trajectory"
)

// Seed is the initial state and ordered hits handed to a trajectory fitter.
// Hits are owned clones; every one of them is on a DT or CSC chamber.
type Seed struct {
	State     trajectory.State
	Hits      []event.Hit
	Direction trajectory.PropagationDirection
}

func newSeed(state trajectory.State, hits []event.Hit) Seed {
	return Seed{State: state, Hits: hits, Direction: trajectory.AlongMomentum}
}

func (s Seed) NHits() int {
	return len(s.Hits)
}

// Anchor is the detector the seed state is expressed at.
func (s Seed) Anchor() geom.DetID {
	return s.State.Surface()
}

// Cleaner removes redundant seeds. Implementations must accept any input
// length, including zero, and must not fail.
type Cleaner interface {
	Clean(seeds []Seed) []Seed
}

// CleanerFunc adapts a function to Cleaner.
type CleanerFunc func(seeds []Seed) []Seed

func (f CleanerFunc) Clean(seeds []Seed) []Seed {
	return f(seeds)
}

// Passthrough keeps every seed in order.
var Passthrough Cleaner = CleanerFunc(func(seeds []Seed) []Seed { return seeds })
