package propagation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/muonseed/internal/trajectory"
)

var (
	ErrPropagatorExists = errors.New("propagator already exists")
	ErrPropagatorNil    = errors.New("propagator is nil")
	ErrInvalidName      = errors.New("invalid propagator name")
)

// Built-in propagator names.
const (
	StraightLine          = "straight-line"
	AnalyticalAlong       = "analytical.along"
	SteppingHelixAlong    = "stepping-helix.along"
	SteppingHelixOpposite = "stepping-helix.opposite"
	SteppingHelixAny      = "stepping-helix.any"
)

// Registry stores propagators by stable name. It is filled once at startup
// and read-only afterwards.
type Registry struct {
	items map[string]Propagator
}

// NewRegistry creates an empty propagator registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Propagator)}
}

// DefaultRegistry holds every built-in propagator.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []Propagator{
		NewStraightLine(StraightLine, trajectory.AlongMomentum),
		NewAnalytical(AnalyticalAlong, trajectory.AlongMomentum),
		NewSteppingHelix(SteppingHelixAlong, trajectory.AlongMomentum, DefaultLimits()),
		NewSteppingHelix(SteppingHelixOpposite, trajectory.OppositeToMomentum, DefaultLimits()),
		NewSteppingHelix(SteppingHelixAny, trajectory.AnyDirection, DefaultLimits()),
	} {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// ValidateName checks the name format: lowercase, digits and single
// separators ('.', '-', '_') not at either end.
func ValidateName(name string) error {
	if !isValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Register adds a propagator to the registry.
func (r *Registry) Register(p Propagator) error {
	if p == nil {
		return ErrPropagatorNil
	}
	name := p.Name()
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %q", ErrPropagatorExists, name)
	}
	r.items[name] = p
	return nil
}

// Resolve returns a propagator by name.
func (r *Registry) Resolve(name string) (Propagator, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.items[name]
	return p, ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(name)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
