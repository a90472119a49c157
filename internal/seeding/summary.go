package seeding

import (
	"github.com/rs/zerolog"
)

// Outcome is the per-candidate decision taken by the Builder.
type Outcome uint8

const (
	OutcomeNoInnerTrack Outcome = iota
	OutcomeFailedQuality
	OutcomeInvalidInnerState
	OutcomeOuterTrack
	OutcomeChamberMatches
	OutcomeNoSeed
)

// Outcomes lists every outcome in reporting order.
var Outcomes = []Outcome{
	OutcomeNoInnerTrack,
	OutcomeFailedQuality,
	OutcomeInvalidInnerState,
	OutcomeOuterTrack,
	OutcomeChamberMatches,
	OutcomeNoSeed,
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNoInnerTrack:
		return "no_inner_track"
	case OutcomeFailedQuality:
		return "failed_quality"
	case OutcomeInvalidInnerState:
		return "invalid_inner_state"
	case OutcomeOuterTrack:
		return "outer_track"
	case OutcomeChamberMatches:
		return "chamber_matches"
	case OutcomeNoSeed:
		return "no_seed"
	default:
		return "unknown"
	}
}

// Seeded reports whether the outcome produced a raw seed.
func (o Outcome) Seeded() bool {
	return o == OutcomeOuterTrack || o == OutcomeChamberMatches
}

// Attempted reports whether the candidate reached the seeding strategies.
func (o Outcome) Attempted() bool {
	return o == OutcomeOuterTrack || o == OutcomeChamberMatches || o == OutcomeNoSeed
}

// Summary holds the per-event tallies. OuterHitsSeen counts the outer-track
// hits of candidates that reached the strategies; OuterHitsKept counts the
// hits of accepted outer-track seeds.
type Summary struct {
	Event              uint64 `json:"event" yaml:"event"`
	Candidates         int    `json:"candidates" yaml:"candidates"`
	NoInnerTrack       int    `json:"no_inner_track" yaml:"no_inner_track"`
	FailedQuality      int    `json:"failed_quality" yaml:"failed_quality"`
	InvalidInnerState  int    `json:"invalid_inner_state" yaml:"invalid_inner_state"`
	FromOuterTrack     int    `json:"from_outer_track" yaml:"from_outer_track"`
	FromChamberMatches int    `json:"from_chamber_matches" yaml:"from_chamber_matches"`
	NoSeed             int    `json:"no_seed" yaml:"no_seed"`
	OuterHitsSeen      int    `json:"outer_hits_seen" yaml:"outer_hits_seen"`
	OuterHitsKept      int    `json:"outer_hits_kept" yaml:"outer_hits_kept"`
	Raw                int    `json:"raw" yaml:"raw"`
	Cleaned            int    `json:"cleaned" yaml:"cleaned"`
}

func (s *Summary) add(o Outcome) {
	switch o {
	case OutcomeNoInnerTrack:
		s.NoInnerTrack++
	case OutcomeFailedQuality:
		s.FailedQuality++
	case OutcomeInvalidInnerState:
		s.InvalidInnerState++
	case OutcomeOuterTrack:
		s.FromOuterTrack++
	case OutcomeChamberMatches:
		s.FromChamberMatches++
	case OutcomeNoSeed:
		s.NoSeed++
	}
}

// Count returns the tally for o.
func (s Summary) Count(o Outcome) int {
	switch o {
	case OutcomeNoInnerTrack:
		return s.NoInnerTrack
	case OutcomeFailedQuality:
		return s.FailedQuality
	case OutcomeInvalidInnerState:
		return s.InvalidInnerState
	case OutcomeOuterTrack:
		return s.FromOuterTrack
	case OutcomeChamberMatches:
		return s.FromChamberMatches
	case OutcomeNoSeed:
		return s.NoSeed
	default:
		return 0
	}
}

// WithInner counts candidates that carried an inner track.
func (s Summary) WithInner() int {
	return s.Candidates - s.NoInnerTrack
}

// MarshalZerologObject lets a Summary be logged as one structured line.
func (s Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("event", s.Event).
		Int("candidates", s.Candidates).
		Int("with_inner", s.WithInner())
	for _, o := range Outcomes {
		e.Int(o.String(), s.Count(o))
	}
	e.Int("outer_hits_seen", s.OuterHitsSeen).
		Int("outer_hits_kept", s.OuterHitsKept).
		Int("raw", s.Raw).
		Int("cleaned", s.Cleaned)
}
