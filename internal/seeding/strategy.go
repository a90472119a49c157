package seeding

import (
	"errors"
	"fmt"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/trajectory"
)

// Reasons a strategy produced no seed. These are ordinary per-candidate
// outcomes, not faults.
var (
	ErrNoOuterTrack     = errors.New("no outer track")
	ErrNoOuterHits      = errors.New("outer track has no hits")
	ErrNoMuonHits       = errors.New("no DT or CSC hits")
	ErrNoChamberMatches = errors.New("no chamber matches")
	ErrNoAnchor         = errors.New("no chamber reachable")
	ErrPropagation      = errors.New("propagation failed")
)

// Strategy tries to build one seed for a candidate from its derived inner
// state. A nil error means the seed is valid and accepted.
type Strategy func(setup Setup, opts Options, c event.Candidate, inner trajectory.State) (Seed, error)

// FromOuterTrack seeds from the innermost detector of the candidate's
// standalone track, keeping the track's DT and CSC hits.
func FromOuterTrack(setup Setup, opts Options, c event.Candidate, inner trajectory.State) (Seed, error) {
	outer := c.Outer
	if outer == nil {
		return Seed{}, ErrNoOuterTrack
	}
	state, err := setup.Propagate(inner, outer.InnerDetID)
	if err != nil {
		return Seed{}, fmt.Errorf("%w: to %s: %w", ErrPropagation, outer.InnerDetID, err)
	}
	state = state.ScaleErrors(opts.ScaleInnerStateError)

	if len(outer.Hits) == 0 {
		return Seed{}, ErrNoOuterHits
	}
	hits := make([]event.Hit, 0, len(outer.Hits))
	for _, h := range outer.Hits {
		if !h.ID.IsMuonChamber() {
			continue
		}
		if opts.ValidHitsOnly && !h.Valid {
			continue
		}
		hits = append(hits, h.Clone())
	}
	if len(hits) == 0 {
		return Seed{}, ErrNoMuonHits
	}
	return newSeed(state, hits), nil
}

// FromChamberMatches anchors on the first matched chamber the inner state
// reaches and collects the DT and CSC segments of every match. Segments of
// later matches are kept even when they lie far from the anchor.
func FromChamberMatches(setup Setup, opts Options, c event.Candidate, inner trajectory.State) (Seed, error) {
	if len(c.Matches) == 0 {
		return Seed{}, ErrNoChamberMatches
	}

	var (
		anchor   trajectory.State
		anchored bool
		firstErr error
		hits     []event.Hit
	)
	for _, m := range c.Matches {
		if !anchored {
			state, err := setup.Propagate(inner, m.ID)
			if err == nil {
				anchor = state.ScaleErrors(opts.ScaleInnerStateError)
				anchored = true
			} else if firstErr == nil {
				firstErr = fmt.Errorf("to %s: %w", m.ID, err)
			}
		}
		if !m.ID.IsMuonChamber() {
			continue
		}
		for _, seg := range m.Segments {
			if seg.ID.IsMuonChamber() {
				hits = append(hits, seg.Clone())
			}
		}
	}

	if !anchored {
		return Seed{}, fmt.Errorf("%w: %w", ErrNoAnchor, firstErr)
	}
	if len(hits) == 0 {
		return Seed{}, ErrNoMuonHits
	}
	return newSeed(anchor, hits), nil
}
