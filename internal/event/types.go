package event

import (
	"github.com/danmuck/muonseed/internal/geom"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hit is a reconstructed measurement on one detector.
type Hit struct {
	ID     geom.DetID
	Valid  bool
	Values []float64
	Errors []float64
}

// Clone returns an independent copy.
func (h Hit) Clone() Hit {
	out := h
	out.Values = cloneFloats(h.Values)
	out.Errors = cloneFloats(h.Errors)
	return out
}

func (h Hit) Subsystem() geom.Subsystem {
	return h.ID.Subsystem()
}

// ChamberMatch associates a candidate with one chamber and the segments
// matched in it.
type ChamberMatch struct {
	ID       geom.DetID
	Segments []Hit
}

// HitPattern summarizes the inner track's hits.
type HitPattern struct {
	ValidTrackerHits int
	ValidPixelHits   int
	LostHits         int
}

// Track is the inner (tracker-only) fit, described at its outermost hit.
type Track struct {
	OuterPosition   r3.Vec
	OuterMomentum   r3.Vec
	Charge          int
	OuterCovariance *mat.SymDense
	OuterDetID      geom.DetID
	Pattern         HitPattern
	Chi2            float64
	Ndof            float64
}

// NormalizedChi2 is chi2/ndof, or 0 without degrees of freedom.
func (t *Track) NormalizedChi2() float64 {
	if t.Ndof <= 0 {
		return 0
	}
	return t.Chi2 / t.Ndof
}

// StandaloneTrack is the outer fit built from muon-system hits only.
type StandaloneTrack struct {
	InnerDetID geom.DetID
	Hits       []Hit
}

// Candidate is a reconstructed muon hypothesis. Inner and Outer are nil
// when absent.
type Candidate struct {
	Inner   *Track
	Outer   *StandaloneTrack
	Matches []ChamberMatch
}

// Event is one unit of work for the seeding orchestrator.
type Event struct {
	ID         uint64
	Candidates []Candidate
}

func cloneFloats(in []float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
