package event

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/testutil/testlog"
)

const sampleEvents = `
events:
  - id: 7
    candidates:
      - inner:
          outer_position: [0.0, 110.0, 5.0]
          outer_momentum: [0.5, 20.0, 2.0]
          charge: -1
          outer_errors: [0.01, 0.01, 0.02, 0.05, 0.05, 0.1]
          outer_det_id: tracker/tob/1
          hit_pattern: {valid_tracker_hits: 14, valid_pixel_hits: 3, lost_hits: 1}
          chi2: 12.0
          ndof: 10
        outer:
          inner_det_id: muon/dt/1
          hits:
            - {id: muon/dt/1, values: [1.0, 2.0], errors: [0.1, 0.1]}
            - {id: muon/rpc/1, values: [3.0]}
            - {id: muon/csc/2, valid: false}
        matches:
          - id: muon/dt/1
            segments:
              - {values: [1.5]}
      - outer:
          inner_det_id: muon/dt/2
`

func TestDecodeYAML(t *testing.T) {
	testlog.Start(t)
	events, err := DecodeYAML(strings.NewReader(sampleEvents))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 || events[0].ID != 7 || len(events[0].Candidates) != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
	c := events[0].Candidates[0]
	if c.Inner == nil || c.Inner.Charge != -1 || c.Inner.OuterDetID != geom.MustDetID(geom.DetTracker, geom.SubTOB, 1) {
		t.Fatalf("unexpected inner: %+v", c.Inner)
	}
	if got := c.Inner.OuterCovariance.At(3, 3); got < 0.0024 || got > 0.0026 {
		t.Fatalf("unexpected covariance diagonal: %v", got)
	}
	if c.Inner.NormalizedChi2() != 1.2 || c.Inner.Pattern.ValidPixelHits != 3 {
		t.Fatalf("unexpected quality fields: %+v", c.Inner)
	}
	if c.Outer == nil || len(c.Outer.Hits) != 3 {
		t.Fatalf("unexpected outer: %+v", c.Outer)
	}
	if !c.Outer.Hits[0].Valid || c.Outer.Hits[2].Valid {
		t.Fatalf("unexpected validity flags: %+v", c.Outer.Hits)
	}
	if c.Outer.Hits[1].Subsystem() != geom.SubsystemRPC {
		t.Fatalf("unexpected subsystem: %q", c.Outer.Hits[1].Subsystem())
	}
	seg := c.Matches[0].Segments[0]
	if seg.ID != c.Matches[0].ID {
		t.Fatalf("segment id must default to chamber id, got %s", seg.ID)
	}

	second := events[0].Candidates[1]
	if second.Inner != nil || second.Outer == nil || len(second.Outer.Hits) != 0 {
		t.Fatalf("unexpected second candidate: %+v", second)
	}
}

func TestDecodeYAMLFailures(t *testing.T) {
	testlog.Start(t)
	cases := []string{
		"events:\n  - id: 1\n    candidates:\n      - inner:\n          outer_errors: [1, 2]\n",
		"events:\n  - id: 1\n    candidates:\n      - inner:\n          outer_errors: [1, 1, 1, 1, 1, 1]\n          outer_covariance: [1]\n",
		"events:\n  - id: 1\n    candidates:\n      - inner:\n          outer_covariance: [1, 2, 3]\n",
		"events:\n  - id: 1\n    bogus: true\n",
	}
	for _, doc := range cases {
		if _, err := DecodeYAML(strings.NewReader(doc)); !errors.Is(err, ErrInvalidEvent) {
			t.Fatalf("expected ErrInvalidEvent for %q, got %v", doc, err)
		}
	}
	if _, err := DecodeYAML(strings.NewReader("events:\n  - matches: [{id: muon/xx/1}]\n")); err == nil {
		t.Fatalf("expected bad detector id to fail")
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	testlog.Start(t)
	events, err := DecodeYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestHitCloneIsIndependent(t *testing.T) {
	testlog.Start(t)
	h := Hit{ID: geom.MustDetID(geom.DetMuon, geom.SubDT, 1), Valid: true, Values: []float64{1, 2}, Errors: []float64{0.1}}
	c := h.Clone()
	h.Values[0] = 99
	h.Errors[0] = 99
	if c.Values[0] != 1 || c.Errors[0] != 0.1 {
		t.Fatalf("clone aliases source: %+v", c)
	}
	if empty := (Hit{}).Clone(); empty.Values != nil || empty.Errors != nil {
		t.Fatalf("empty clone should keep nil slices: %+v", empty)
	}
}
