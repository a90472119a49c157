package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrDegenerateSurface = errors.New("degenerate surface")

// Plane is a bounded planar detector surface. U, V and Normal form a
// right-handed orthonormal frame. A zero half-extent leaves that local
// axis unbounded.
type Plane struct {
	ID     DetID
	Origin r3.Vec
	Normal r3.Vec
	U      r3.Vec
	V      r3.Vec
	HalfU  float64
	HalfV  float64
}

// NewPlane orthonormalizes the frame from a normal and an in-plane axis hint.
func NewPlane(id DetID, origin, normal, uHint r3.Vec, halfU, halfV float64) (Plane, error) {
	if r3.Norm(normal) == 0 {
		return Plane{}, fmt.Errorf("%w: %s has zero normal", ErrDegenerateSurface, id)
	}
	if halfU < 0 || halfV < 0 {
		return Plane{}, fmt.Errorf("%w: %s has negative extent", ErrDegenerateSurface, id)
	}
	n := r3.Unit(normal)
	u := r3.Sub(uHint, r3.Scale(r3.Dot(uHint, n), n))
	if r3.Norm(u) < 1e-9 {
		u = fallbackAxis(n)
	}
	u = r3.Unit(u)
	return Plane{
		ID:     id,
		Origin: origin,
		Normal: n,
		U:      u,
		V:      r3.Cross(n, u),
		HalfU:  halfU,
		HalfV:  halfV,
	}, nil
}

// SignedDistance is positive on the side the normal points to.
func (p Plane) SignedDistance(x r3.Vec) float64 {
	return r3.Dot(r3.Sub(x, p.Origin), p.Normal)
}

// Local returns in-plane coordinates of x projected onto the plane.
func (p Plane) Local(x r3.Vec) (u, v float64) {
	d := r3.Sub(x, p.Origin)
	return r3.Dot(d, p.U), r3.Dot(d, p.V)
}

// Contains reports whether the projection of x lies within the bounds.
func (p Plane) Contains(x r3.Vec) bool {
	u, v := p.Local(x)
	if p.HalfU > 0 && math.Abs(u) > p.HalfU {
		return false
	}
	if p.HalfV > 0 && math.Abs(v) > p.HalfV {
		return false
	}
	return true
}

func fallbackAxis(n r3.Vec) r3.Vec {
	axis := r3.Vec{X: 1}
	if math.Abs(n.X) > 0.9 {
		axis = r3.Vec{Y: 1}
	}
	return r3.Sub(axis, r3.Scale(r3.Dot(axis, n), n))
}
