// Package trajectory defines immutable trajectory states expressed at a
// detector surface.
//
// Units: cm for positions, GeV/c for momenta. Covariances are 6x6 over
// (x, y, z, px, py, pz).
package trajectory
