// Package seeding builds standalone muon seeds from reconstructed
// candidates.
//
// Ownership boundary:
// - seed shape and invariants
// - the outer-track and chamber-match strategies
// - per-event orchestration and its summary
// - the cleaner contract (implementations live elsewhere)
//
// Per candidate:
// - no inner track -> skip
// - inner state invalid -> skip
// - outer-track seed -> accepted
// - chamber-match seed -> accepted
// - otherwise no seed
//
// Per-event context (field, geometry, propagator) is resolved once in
// Build and passed down explicitly as a Setup. Nothing is cached between
// events.
package seeding
