package propagation

import (
	"fmt"
	"math"

	"github.com/danmuck/muonseed/internal/field"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/trajectory"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Propagator extrapolates a state onto a target plane. Implementations are
// stateless and safe for concurrent use.
type Propagator interface {
	Name() string
	Direction() trajectory.PropagationDirection
	Propagate(s trajectory.State, target geom.Plane, f field.Field) (trajectory.State, error)
}

// ToDetector resolves id in the geometry and propagates onto it. A geometry
// miss is returned like any other propagation failure.
func ToDetector(p Propagator, g *geom.Geometry, f field.Field, s trajectory.State, id geom.DetID) (trajectory.State, error) {
	plane, err := g.Surface(id)
	if err != nil {
		return trajectory.State{}, err
	}
	return p.Propagate(s, plane, f)
}

// Limits bound the work done by a single propagation.
type Limits struct {
	MaxStep   float64
	MaxPath   float64
	MaxSteps  int
	Tolerance float64
}

func DefaultLimits() Limits {
	return Limits{
		MaxStep:   20,
		MaxPath:   5000,
		MaxSteps:  1000,
		Tolerance: 1e-4,
	}
}

// Stepping is the shared propagator implementation.
type Stepping struct {
	name      string
	direction trajectory.PropagationDirection
	limits    Limits
	step      stepFunc
}

// NewStraightLine ignores the field entirely.
func NewStraightLine(name string, dir trajectory.PropagationDirection) *Stepping {
	limits := DefaultLimits()
	limits.MaxStep = limits.MaxPath
	return &Stepping{name: name, direction: dir, limits: limits, step: straightStep}
}

// NewAnalytical follows a helix in the field found at the start point.
func NewAnalytical(name string, dir trajectory.PropagationDirection) *Stepping {
	return &Stepping{name: name, direction: dir, limits: DefaultLimits(), step: helixStep}
}

// NewSteppingHelix integrates through a non-uniform field.
func NewSteppingHelix(name string, dir trajectory.PropagationDirection, limits Limits) *Stepping {
	return &Stepping{name: name, direction: dir, limits: limits, step: rk4Step}
}

func (p *Stepping) Name() string {
	return p.name
}

func (p *Stepping) Direction() trajectory.PropagationDirection {
	return p.direction
}

// Propagate moves s onto target and transports its covariance.
func (p *Stepping) Propagate(s trajectory.State, target geom.Plane, f field.Field) (trajectory.State, error) {
	if !s.Valid() {
		return trajectory.State{}, ErrInvalidState
	}
	if f == nil {
		f = field.Uniform{}
	}
	q := float64(s.Charge())
	x, mom, err := p.transport(s.Position(), s.Momentum(), q, target, f, p.direction)
	if err != nil {
		return trajectory.State{}, fmt.Errorf("%s to %s: %w", p.name, target.ID, err)
	}
	if !target.Contains(x) {
		u, v := target.Local(x)
		return trajectory.State{}, fmt.Errorf("%s to %s: %w (u=%.2f v=%.2f)", p.name, target.ID, ErrOutOfBounds, u, v)
	}

	jac, err := p.jacobian(s.Vector(), q, target, f)
	if err != nil {
		return trajectory.State{}, fmt.Errorf("%s to %s: %w", p.name, target.ID, err)
	}
	cov := transportCovariance(jac, s.Covariance())

	out, err := trajectory.NewState(x, mom, s.Charge(), cov, target.ID)
	if err != nil {
		return trajectory.State{}, fmt.Errorf("%s to %s: %w: %v", p.name, target.ID, ErrDiverged, err)
	}
	return out, nil
}

// transport runs the plane-crossing loop. The first linear path estimate
// must agree with dir; later estimates may correct in either sense. Only
// that first estimate is checked, so a track that curls back may still
// reach a plane behind its start.
func (p *Stepping) transport(x, mom r3.Vec, q float64, plane geom.Plane, f field.Field, dir trajectory.PropagationDirection) (r3.Vec, r3.Vec, error) {
	b0 := f.Value(x)
	path := 0.0
	for i := 0; i < p.limits.MaxSteps; i++ {
		d := plane.SignedDistance(x)
		cosine := r3.Dot(r3.Unit(mom), plane.Normal)
		if math.Abs(cosine) < minCosine {
			return x, mom, ErrNoIntersection
		}
		s := -d / cosine
		if math.Abs(d) <= p.limits.Tolerance {
			// snap onto the plane; the residual is far below any curvature scale
			return r3.Add(x, r3.Scale(s, r3.Unit(mom))), mom, nil
		}
		if i == 0 {
			if dir == trajectory.AlongMomentum && s < 0 {
				return x, mom, ErrNoIntersection
			}
			if dir == trajectory.OppositeToMomentum && s > 0 {
				return x, mom, ErrNoIntersection
			}
		}
		if math.Abs(s) > p.limits.MaxStep {
			s = math.Copysign(p.limits.MaxStep, s)
		}
		x, mom = p.step(x, mom, q, s, f, b0)
		path += s
		if math.Abs(path) > p.limits.MaxPath {
			return x, mom, ErrDiverged
		}
		if !finite(x) || !finite(mom) {
			return x, mom, ErrDiverged
		}
	}
	return x, mom, ErrDiverged
}

// jacobian differentiates the start-to-plane map by central differences.
// Perturbed starts may sit on either side of the plane, so they are
// transported without a direction constraint.
func (p *Stepping) jacobian(v [trajectory.Dim]float64, q float64, plane geom.Plane, f field.Field) (*mat.Dense, error) {
	jac := mat.NewDense(trajectory.Dim, trajectory.Dim, nil)
	pmag := math.Sqrt(v[3]*v[3] + v[4]*v[4] + v[5]*v[5])
	for j := 0; j < trajectory.Dim; j++ {
		h := positionEpsilon
		if j >= 3 {
			h = math.Max(momentumEpsilon*pmag, 1e-9)
		}
		plus, minus := v, v
		plus[j] += h
		minus[j] -= h

		xp, pp, err := p.transport(unpack(plus), unpackMomentum(plus), q, plane, f, trajectory.AnyDirection)
		if err != nil {
			return nil, fmt.Errorf("%w: jacobian column %d: %v", ErrDiverged, j, err)
		}
		xm, pm, err := p.transport(unpack(minus), unpackMomentum(minus), q, plane, f, trajectory.AnyDirection)
		if err != nil {
			return nil, fmt.Errorf("%w: jacobian column %d: %v", ErrDiverged, j, err)
		}
		fp := [trajectory.Dim]float64{xp.X, xp.Y, xp.Z, pp.X, pp.Y, pp.Z}
		fm := [trajectory.Dim]float64{xm.X, xm.Y, xm.Z, pm.X, pm.Y, pm.Z}
		for i := 0; i < trajectory.Dim; i++ {
			jac.Set(i, j, (fp[i]-fm[i])/(2*h))
		}
	}
	return jac, nil
}

// transportCovariance returns J C Jᵀ, symmetrized.
func transportCovariance(jac *mat.Dense, cov *mat.SymDense) *mat.SymDense {
	var full mat.Dense
	full.Product(jac, cov, jac.T())
	out := mat.NewSymDense(trajectory.Dim, nil)
	for i := 0; i < trajectory.Dim; i++ {
		for j := i; j < trajectory.Dim; j++ {
			out.SetSym(i, j, 0.5*(full.At(i, j)+full.At(j, i)))
		}
	}
	return out
}

const (
	minCosine       = 1e-6
	positionEpsilon = 1e-3
	momentumEpsilon = 1e-5
)

func unpack(v [trajectory.Dim]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func unpackMomentum(v [trajectory.Dim]float64) r3.Vec {
	return r3.Vec{X: v[3], Y: v[4], Z: v[5]}
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}
