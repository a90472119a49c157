package propagation

import (
	"math"

	"github.com/danmuck/muonseed/internal/field"
	"gonum.org/v1/gonum/spatial/r3"
)

// kappa converts charge x field to momentum change per path length:
// GeV/c per (T cm).
const kappa = 0.299792458e-2

// stepFunc advances (x, p) by signed path length ds. b0 is the field at the
// start of the propagation, used by steppers that assume a uniform field.
type stepFunc func(x, p r3.Vec, q, ds float64, f field.Field, b0 r3.Vec) (r3.Vec, r3.Vec)

func straightStep(x, p r3.Vec, _, ds float64, _ field.Field, _ r3.Vec) (r3.Vec, r3.Vec) {
	return r3.Add(x, r3.Scale(ds, r3.Unit(p))), p
}

// helixStep rotates p about the field axis: dp/ds = kappa q (p̂ x B).
func helixStep(x, p r3.Vec, q, ds float64, _ field.Field, b r3.Vec) (r3.Vec, r3.Vec) {
	bmag := r3.Norm(b)
	pmag := r3.Norm(p)
	if bmag == 0 || q == 0 {
		return straightStep(x, p, q, ds, nil, b)
	}
	a := kappa * q * bmag / pmag
	if math.Abs(a*ds) < 1e-9 {
		return straightStep(x, p, q, ds, nil, b)
	}
	axis := r3.Scale(1/bmag, b)
	par := r3.Scale(r3.Dot(p, axis), axis)
	perp := r3.Sub(p, par)
	w := r3.Cross(axis, perp)

	theta := -a * ds
	c, s := math.Cos(theta), math.Sin(theta)
	next := r3.Add(par, r3.Add(r3.Scale(c, perp), r3.Scale(s, w)))

	dx := r3.Add(r3.Scale(ds, par), r3.Add(r3.Scale(s/(-a), perp), r3.Scale((c-1)/a, w)))
	return r3.Add(x, r3.Scale(1/pmag, dx)), next
}

// rk4Step integrates position and momentum with the classic fourth order
// scheme. |p| is restored afterwards since a static field does no work.
func rk4Step(x, p r3.Vec, q, ds float64, f field.Field, _ r3.Vec) (r3.Vec, r3.Vec) {
	deriv := func(x, p r3.Vec) (r3.Vec, r3.Vec) {
		u := r3.Unit(p)
		return u, r3.Scale(kappa*q, r3.Cross(u, f.Value(x)))
	}
	half := ds / 2
	k1x, k1p := deriv(x, p)
	k2x, k2p := deriv(r3.Add(x, r3.Scale(half, k1x)), r3.Add(p, r3.Scale(half, k1p)))
	k3x, k3p := deriv(r3.Add(x, r3.Scale(half, k2x)), r3.Add(p, r3.Scale(half, k2p)))
	k4x, k4p := deriv(r3.Add(x, r3.Scale(ds, k3x)), r3.Add(p, r3.Scale(ds, k3p)))

	nx := r3.Add(x, r3.Scale(ds/6, sum4(k1x, k2x, k3x, k4x)))
	np := r3.Add(p, r3.Scale(ds/6, sum4(k1p, k2p, k3p, k4p)))
	if n := r3.Norm(np); n > 0 {
		np = r3.Scale(r3.Norm(p)/n, np)
	}
	return nx, np
}

// sum4 returns a + 2b + 2c + d.
func sum4(a, b, c, d r3.Vec) r3.Vec {
	return r3.Add(r3.Add(a, d), r3.Scale(2, r3.Add(b, c)))
}
