// Package event owns the per-event input data model: candidates with their
// inner tracks, standalone tracks and chamber matches.
//
// Everything here is read-only once decoded. Seeds never alias these
// values; they take Hit clones.
package event
