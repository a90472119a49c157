package event

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/trajectory"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var ErrInvalidEvent = errors.New("invalid event")

type fileDocument struct {
	Events []fileEvent `yaml:"events"`
}

type fileEvent struct {
	ID         uint64          `yaml:"id"`
	Candidates []fileCandidate `yaml:"candidates"`
}

type fileCandidate struct {
	Inner   *fileTrack      `yaml:"inner"`
	Outer   *fileStandalone `yaml:"outer"`
	Matches []fileMatch     `yaml:"matches"`
}

type fileTrack struct {
	OuterPosition   [3]float64     `yaml:"outer_position"`
	OuterMomentum   [3]float64     `yaml:"outer_momentum"`
	Charge          int            `yaml:"charge"`
	OuterErrors     []float64      `yaml:"outer_errors"`
	OuterCovariance []float64      `yaml:"outer_covariance"`
	OuterDetID      geom.DetID     `yaml:"outer_det_id"`
	HitPattern      fileHitPattern `yaml:"hit_pattern"`
	Chi2            float64        `yaml:"chi2"`
	Ndof            float64        `yaml:"ndof"`
}

type fileHitPattern struct {
	ValidTrackerHits int `yaml:"valid_tracker_hits"`
	ValidPixelHits   int `yaml:"valid_pixel_hits"`
	LostHits         int `yaml:"lost_hits"`
}

type fileStandalone struct {
	InnerDetID geom.DetID `yaml:"inner_det_id"`
	Hits       []fileHit  `yaml:"hits"`
}

type fileMatch struct {
	ID       geom.DetID `yaml:"id"`
	Segments []fileHit  `yaml:"segments"`
}

type fileHit struct {
	ID     geom.DetID `yaml:"id"`
	Valid  *bool      `yaml:"valid"`
	Values []float64  `yaml:"values"`
	Errors []float64  `yaml:"errors"`
}

// LoadYAML reads every event from a YAML file.
func LoadYAML(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("event load failed (%s): %w", path, err)
	}
	defer f.Close()
	events, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("event load failed (%s): %w", path, err)
	}
	return events, nil
}

// DecodeYAML parses an `events:` document.
func DecodeYAML(r io.Reader) ([]Event, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	events := make([]Event, 0, len(doc.Events))
	for i, fe := range doc.Events {
		ev, err := fe.convert()
		if err != nil {
			return nil, fmt.Errorf("event[%d] id=%d: %w", i, fe.ID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (fe fileEvent) convert() (Event, error) {
	ev := Event{ID: fe.ID, Candidates: make([]Candidate, 0, len(fe.Candidates))}
	for i, fc := range fe.Candidates {
		c, err := fc.convert()
		if err != nil {
			return Event{}, fmt.Errorf("candidate[%d]: %w", i, err)
		}
		ev.Candidates = append(ev.Candidates, c)
	}
	return ev, nil
}

func (fc fileCandidate) convert() (Candidate, error) {
	var c Candidate
	if fc.Inner != nil {
		inner, err := fc.Inner.convert()
		if err != nil {
			return Candidate{}, fmt.Errorf("inner: %w", err)
		}
		c.Inner = inner
	}
	if fc.Outer != nil {
		c.Outer = &StandaloneTrack{InnerDetID: fc.Outer.InnerDetID, Hits: convertHits(fc.Outer.Hits, 0)}
	}
	for _, fm := range fc.Matches {
		c.Matches = append(c.Matches, ChamberMatch{ID: fm.ID, Segments: convertHits(fm.Segments, fm.ID)})
	}
	return c, nil
}

func (ft fileTrack) convert() (*Track, error) {
	cov, err := ft.covariance()
	if err != nil {
		return nil, err
	}
	return &Track{
		OuterPosition:   toVec(ft.OuterPosition),
		OuterMomentum:   toVec(ft.OuterMomentum),
		Charge:          ft.Charge,
		OuterCovariance: cov,
		OuterDetID:      ft.OuterDetID,
		Pattern: HitPattern{
			ValidTrackerHits: ft.HitPattern.ValidTrackerHits,
			ValidPixelHits:   ft.HitPattern.ValidPixelHits,
			LostHits:         ft.HitPattern.LostHits,
		},
		Chi2: ft.Chi2,
		Ndof: ft.Ndof,
	}, nil
}

func (ft fileTrack) covariance() (*mat.SymDense, error) {
	switch {
	case len(ft.OuterCovariance) > 0 && len(ft.OuterErrors) > 0:
		return nil, fmt.Errorf("%w: outer_covariance and outer_errors are exclusive", ErrInvalidEvent)
	case len(ft.OuterCovariance) > 0:
		cov, err := trajectory.CovarianceFromPacked(ft.OuterCovariance)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		return cov, nil
	case len(ft.OuterErrors) == trajectory.Dim:
		var sigmas [trajectory.Dim]float64
		copy(sigmas[:], ft.OuterErrors)
		return trajectory.DiagonalCovariance(sigmas), nil
	case len(ft.OuterErrors) > 0:
		return nil, fmt.Errorf("%w: outer_errors needs %d entries, got %d", ErrInvalidEvent, trajectory.Dim, len(ft.OuterErrors))
	default:
		// left nil: the orchestrator tallies the state as invalid
		return nil, nil
	}
}

// convertHits defaults missing ids to fallback and missing validity to true.
func convertHits(in []fileHit, fallback geom.DetID) []Hit {
	if len(in) == 0 {
		return nil
	}
	out := make([]Hit, 0, len(in))
	for _, fh := range in {
		h := Hit{ID: fh.ID, Valid: true, Values: fh.Values, Errors: fh.Errors}
		if h.ID == 0 {
			h.ID = fallback
		}
		if fh.Valid != nil {
			h.Valid = *fh.Valid
		}
		out = append(out, h)
	}
	return out
}

func toVec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
