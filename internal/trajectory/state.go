package trajectory

import (
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/muonseed/internal/geom"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Dim is the size of the Cartesian state vector.
const Dim = 6

var ErrInvalidState = errors.New("invalid trajectory state")

// State is a trajectory state at a reference surface. The zero value is
// invalid. States are never mutated; derivations return new values.
type State struct {
	position   r3.Vec
	momentum   r3.Vec
	charge     int
	covariance *mat.SymDense
	surface    geom.DetID
}

// NewState validates inputs and copies the covariance.
func NewState(position, momentum r3.Vec, charge int, covariance mat.Symmetric, surface geom.DetID) (State, error) {
	if !finiteVec(position) || !finiteVec(momentum) {
		return State{}, fmt.Errorf("%w: non-finite parameters", ErrInvalidState)
	}
	if r3.Norm(momentum) == 0 {
		return State{}, fmt.Errorf("%w: zero momentum", ErrInvalidState)
	}
	if charge == 0 {
		return State{}, fmt.Errorf("%w: neutral state", ErrInvalidState)
	}
	if covariance == nil || covariance.SymmetricDim() != Dim {
		return State{}, fmt.Errorf("%w: covariance must be %dx%d", ErrInvalidState, Dim, Dim)
	}
	cov := mat.NewSymDense(Dim, nil)
	for i := 0; i < Dim; i++ {
		for j := i; j < Dim; j++ {
			v := covariance.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return State{}, fmt.Errorf("%w: non-finite covariance", ErrInvalidState)
			}
			cov.SetSym(i, j, v)
		}
		if cov.At(i, i) < 0 {
			return State{}, fmt.Errorf("%w: negative variance at %d", ErrInvalidState, i)
		}
	}
	return State{
		position:   position,
		momentum:   momentum,
		charge:     charge,
		covariance: cov,
		surface:    surface,
	}, nil
}

// Valid reports whether s was produced by NewState.
func (s State) Valid() bool {
	return s.covariance != nil
}

func (s State) Position() r3.Vec    { return s.position }
func (s State) Momentum() r3.Vec    { return s.momentum }
func (s State) Charge() int         { return s.charge }
func (s State) Surface() geom.DetID { return s.surface }
func (s State) P() float64          { return r3.Norm(s.momentum) }
func (s State) Pt() float64         { return math.Hypot(s.momentum.X, s.momentum.Y) }
func (s State) Phi() float64        { return math.Atan2(s.momentum.Y, s.momentum.X) }
func (s State) Direction() r3.Vec   { return r3.Unit(s.momentum) }
func (s State) QOverP() float64     { return float64(s.charge) / s.P() }

// Eta is the pseudorapidity of the momentum.
func (s State) Eta() float64 {
	return math.Asinh(s.momentum.Z / s.Pt())
}

// Covariance returns a copy of the covariance matrix.
func (s State) Covariance() *mat.SymDense {
	if s.covariance == nil {
		return nil
	}
	out := mat.NewSymDense(Dim, nil)
	out.CopySym(s.covariance)
	return out
}

// Errors returns the square roots of the covariance diagonal.
func (s State) Errors() [Dim]float64 {
	var out [Dim]float64
	if s.covariance == nil {
		return out
	}
	for i := 0; i < Dim; i++ {
		out[i] = math.Sqrt(s.covariance.At(i, i))
	}
	return out
}

// ScaleErrors returns a copy whose uncertainties are multiplied by factor,
// i.e. the covariance is multiplied by factor squared.
func (s State) ScaleErrors(factor float64) State {
	if !s.Valid() {
		return s
	}
	out := s
	out.covariance = mat.NewSymDense(Dim, nil)
	out.covariance.ScaleSym(factor*factor, s.covariance)
	return out
}

// Vector packs position and momentum into a 6-vector.
func (s State) Vector() [Dim]float64 {
	return [Dim]float64{
		s.position.X, s.position.Y, s.position.Z,
		s.momentum.X, s.momentum.Y, s.momentum.Z,
	}
}

func (s State) String() string {
	if !s.Valid() {
		return "state(invalid)"
	}
	return fmt.Sprintf("state(%s q=%+d p=%.3f pt=%.3f eta=%.3f phi=%.3f)",
		s.surface, s.charge, s.P(), s.Pt(), s.Eta(), s.Phi())
}

func finiteVec(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
