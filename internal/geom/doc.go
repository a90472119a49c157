// Package geom owns detector identity and surface geometry.
//
// Ownership boundary:
// - detector id encoding and subsystem tags
// - bounded plane surfaces
// - per-event geometry snapshots and their TOML description
package geom
