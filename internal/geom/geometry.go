package geom

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownDetector   = errors.New("unknown detector")
	ErrDuplicateDetector = errors.New("duplicate detector")
)

// Geometry is a read-only snapshot of detector surfaces keyed by id.
type Geometry struct {
	surfaces map[DetID]Plane
}

// NewGeometry indexes planes by id; ids must be unique.
func NewGeometry(planes ...Plane) (*Geometry, error) {
	g := &Geometry{surfaces: make(map[DetID]Plane, len(planes))}
	for _, p := range planes {
		if _, ok := g.surfaces[p.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDetector, p.ID)
		}
		g.surfaces[p.ID] = p
	}
	return g, nil
}

// Surface resolves an id to its plane.
func (g *Geometry) Surface(id DetID) (Plane, error) {
	if g == nil {
		return Plane{}, fmt.Errorf("%w: %s (no geometry)", ErrUnknownDetector, id)
	}
	p, ok := g.surfaces[id]
	if !ok {
		return Plane{}, fmt.Errorf("%w: %s", ErrUnknownDetector, id)
	}
	return p, nil
}

// Has reports whether id is registered.
func (g *Geometry) Has(id DetID) bool {
	if g == nil {
		return false
	}
	_, ok := g.surfaces[id]
	return ok
}

func (g *Geometry) Len() int {
	if g == nil {
		return 0
	}
	return len(g.surfaces)
}

// IDs returns registered ids in ascending order.
func (g *Geometry) IDs() []DetID {
	if g == nil {
		return nil
	}
	ids := make([]DetID, 0, len(g.surfaces))
	for id := range g.surfaces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
