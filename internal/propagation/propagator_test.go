package propagation

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/muonseed/internal/field"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/testutil/testlog"
	"github.com/danmuck/muonseed/internal/trajectory"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	sourceID = geom.MustDetID(geom.DetTracker, geom.SubTOB, 1)
	targetID = geom.MustDetID(geom.DetMuon, geom.SubDT, 1)
)

func plane(t *testing.T, id geom.DetID, origin, normal r3.Vec, halfU, halfV float64) geom.Plane {
	t.Helper()
	p, err := geom.NewPlane(id, origin, normal, r3.Vec{X: 1, Z: 1}, halfU, halfV)
	require.NoError(t, err)
	return p
}

func state(t *testing.T, pos, mom r3.Vec, charge int, sigmas [trajectory.Dim]float64) trajectory.State {
	t.Helper()
	s, err := trajectory.NewState(pos, mom, charge, trajectory.DiagonalCovariance(sigmas), sourceID)
	require.NoError(t, err)
	return s
}

func TestStraightLineCrossingAndCovariance(t *testing.T) {
	testlog.Start(t)
	target := plane(t, targetID, r3.Vec{Y: 100}, r3.Vec{Y: 1}, 0, 0)
	src := state(t, r3.Vec{}, r3.Vec{Y: 10}, 1, [trajectory.Dim]float64{0.1, 0.1, 0.1, 0.01, 0.01, 0.01})

	for _, p := range []Propagator{
		NewStraightLine(StraightLine, trajectory.AlongMomentum),
		NewSteppingHelix(SteppingHelixAlong, trajectory.AlongMomentum, DefaultLimits()),
		NewAnalytical(AnalyticalAlong, trajectory.AlongMomentum),
	} {
		out, err := p.Propagate(src, target, field.Uniform{})
		require.NoError(t, err, p.Name())
		require.Equal(t, targetID, out.Surface())
		require.InDelta(t, 100, out.Position().Y, 1e-9)
		require.InDelta(t, 0, out.Position().X, 1e-9)
		require.InDelta(t, 10, out.Momentum().Y, 1e-9)

		// x_f = x + (100 - y) px/py  =>  var(x_f) = var(x) + 100 var(px)
		cov := out.Covariance()
		require.InDelta(t, 0.01+100*1e-4, cov.At(0, 0), 1e-6, p.Name())
		require.InDelta(t, 0.01+100*1e-4, cov.At(2, 2), 1e-6, p.Name())
		require.InDelta(t, 0, cov.At(1, 1), 1e-9, p.Name())
		require.InDelta(t, 1e-4, cov.At(3, 3), 1e-9, p.Name())
	}
}

func TestDirectionConstraint(t *testing.T) {
	testlog.Start(t)
	behind := plane(t, targetID, r3.Vec{Y: -100}, r3.Vec{Y: 1}, 0, 0)
	src := state(t, r3.Vec{}, r3.Vec{Y: 10}, 1, [trajectory.Dim]float64{0.1, 0.1, 0.1, 0.01, 0.01, 0.01})

	_, err := NewSteppingHelix(SteppingHelixAlong, trajectory.AlongMomentum, DefaultLimits()).Propagate(src, behind, field.Uniform{})
	require.ErrorIs(t, err, ErrNoIntersection)

	out, err := NewSteppingHelix(SteppingHelixOpposite, trajectory.OppositeToMomentum, DefaultLimits()).Propagate(src, behind, field.Uniform{})
	require.NoError(t, err)
	require.InDelta(t, -100, out.Position().Y, 1e-9)

	ahead := plane(t, targetID, r3.Vec{Y: 100}, r3.Vec{Y: 1}, 0, 0)
	_, err = NewSteppingHelix(SteppingHelixOpposite, trajectory.OppositeToMomentum, DefaultLimits()).Propagate(src, ahead, field.Uniform{})
	require.ErrorIs(t, err, ErrNoIntersection)

	_, err = NewSteppingHelix(SteppingHelixAny, trajectory.AnyDirection, DefaultLimits()).Propagate(src, behind, field.Uniform{})
	require.NoError(t, err)
}

func TestParallelAndOutOfBounds(t *testing.T) {
	testlog.Start(t)
	p := NewStraightLine(StraightLine, trajectory.AlongMomentum)
	src := state(t, r3.Vec{}, r3.Vec{X: 10}, 1, [trajectory.Dim]float64{0.1, 0.1, 0.1, 0.01, 0.01, 0.01})

	parallel := plane(t, targetID, r3.Vec{Y: 100}, r3.Vec{Y: 1}, 0, 0)
	_, err := p.Propagate(src, parallel, nil)
	require.ErrorIs(t, err, ErrNoIntersection)

	narrow := plane(t, targetID, r3.Vec{X: 100, Y: 50}, r3.Vec{X: 1}, 10, 10)
	_, err = p.Propagate(src, narrow, nil)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = p.Propagate(trajectory.State{}, narrow, nil)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestHelixMatchesCircleInUniformField(t *testing.T) {
	testlog.Start(t)
	const bz = 4.0
	radius := 1 / (kappa * bz)
	target := plane(t, targetID, r3.Vec{X: 50}, r3.Vec{X: 1}, 0, 0)
	src := state(t, r3.Vec{}, r3.Vec{X: 1}, 1, [trajectory.Dim]float64{0.01, 0.01, 0.01, 0.001, 0.001, 0.001})
	f := field.Uniform{B: r3.Vec{Z: bz}}

	// positive charge along +x in +z field bends towards -y
	wantY := -(radius - math.Sqrt(radius*radius-50*50))

	out, err := NewAnalytical(AnalyticalAlong, trajectory.AlongMomentum).Propagate(src, target, f)
	require.NoError(t, err)
	require.InDelta(t, 50, out.Position().X, 1e-9)
	require.InDelta(t, wantY, out.Position().Y, 1e-6)
	require.InDelta(t, 1, r3.Norm(out.Momentum()), 1e-9)

	stepped, err := NewSteppingHelix(SteppingHelixAlong, trajectory.AlongMomentum, DefaultLimits()).Propagate(src, target, f)
	require.NoError(t, err)
	require.InDelta(t, wantY, stepped.Position().Y, 1e-2)
	require.InDelta(t, 1, r3.Norm(stepped.Momentum()), 1e-9)
	require.Less(t, stepped.Momentum().Y, 0.0)
}

func TestCurlingTrackFails(t *testing.T) {
	testlog.Start(t)
	target := plane(t, targetID, r3.Vec{Y: 100}, r3.Vec{Y: 1}, 0, 0)
	src := state(t, r3.Vec{}, r3.Vec{Y: 0.1}, 1, [trajectory.Dim]float64{0.01, 0.01, 0.01, 0.001, 0.001, 0.001})
	_, err := NewAnalytical(AnalyticalAlong, trajectory.AlongMomentum).
		Propagate(src, target, field.Uniform{B: r3.Vec{Z: 4}})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDiverged) || errors.Is(err, ErrNoIntersection), "unexpected error: %v", err)
}

func TestSolenoidIntoReturnYoke(t *testing.T) {
	testlog.Start(t)
	f := field.Solenoid{Central: 3.8, Radius: 300, HalfLength: 600, YokeField: -1.8, YokeOuterRadius: 800}
	target := plane(t, targetID, r3.Vec{Y: 450}, r3.Vec{Y: 1}, 300, 300)
	src := state(t, r3.Vec{Y: 110}, r3.Vec{X: 0.5, Y: 20, Z: 2}, -1, [trajectory.Dim]float64{0.01, 0.01, 0.02, 0.05, 0.05, 0.1})

	p := NewSteppingHelix(SteppingHelixAlong, trajectory.AlongMomentum, DefaultLimits())
	out, err := p.Propagate(src, target, f)
	require.NoError(t, err)
	require.InDelta(t, 450, out.Position().Y, 1e-9)
	require.InDelta(t, src.P(), out.P(), 1e-9)
	for i, sigma := range out.Errors() {
		require.False(t, math.IsNaN(sigma), "sigma %d", i)
	}

	again, err := p.Propagate(src, target, f)
	require.NoError(t, err)
	require.Equal(t, out.Vector(), again.Vector())
	require.Equal(t, trajectory.Packed(out.Covariance()), trajectory.Packed(again.Covariance()))
	require.Equal(t, sourceID, src.Surface(), "source must be untouched")
}

func TestToDetectorResolvesGeometry(t *testing.T) {
	testlog.Start(t)
	target := plane(t, targetID, r3.Vec{Y: 100}, r3.Vec{Y: 1}, 0, 0)
	g, err := geom.NewGeometry(target)
	require.NoError(t, err)
	src := state(t, r3.Vec{}, r3.Vec{Y: 10}, 1, [trajectory.Dim]float64{0.1, 0.1, 0.1, 0.01, 0.01, 0.01})
	p := NewStraightLine(StraightLine, trajectory.AlongMomentum)

	out, err := ToDetector(p, g, nil, src, targetID)
	require.NoError(t, err)
	require.Equal(t, targetID, out.Surface())

	_, err = ToDetector(p, g, nil, src, geom.MustDetID(geom.DetMuon, geom.SubCSC, 9))
	require.ErrorIs(t, err, geom.ErrUnknownDetector)
}
