// Package propagation extrapolates trajectory states between detector
// surfaces.
//
// Every propagator shares one plane-crossing loop and differs only in the
// stepper that advances position and momentum along the path:
// - straight-line ignores the field
// - analytical follows an exact helix in the field sampled at the start
// - stepping-helix integrates the Lorentz force with RK4, re-sampling the
//   field at every stage
//
// Covariance is transported with the numerical Jacobian of the full
// start-to-plane map. Energy loss and multiple scattering are not modeled.
//
// Failures are ordinary outcomes: callers treat any returned error as
// "no state at the target".
package propagation
