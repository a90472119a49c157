package seeding

import (
	"errors"
	"testing"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/propagation"
	"github.com/danmuck/muonseed/internal/testutil/testlog"
	"github.com/danmuck/muonseed/internal/trajectory"
	"github.com/stretchr/testify/require"
)

func testSetup(t *testing.T) (Setup, trajectory.State) {
	t.Helper()
	setup, err := ResolveSetup(testServices(t), propagation.StraightLine)
	require.NoError(t, err)
	inner, err := InnerState(setup, innerTrack())
	require.NoError(t, err)
	return setup, inner
}

func TestFromOuterTrackReasons(t *testing.T) {
	testlog.Start(t)
	setup, inner := testSetup(t)
	opts := testOptions()

	_, err := FromOuterTrack(setup, opts, event.Candidate{}, inner)
	require.ErrorIs(t, err, ErrNoOuterTrack)

	unknown := geom.MustDetID(geom.DetMuon, geom.SubDT, 77)
	_, err = FromOuterTrack(setup, opts, event.Candidate{Outer: &event.StandaloneTrack{InnerDetID: unknown, Hits: []event.Hit{hit(dt1, 1)}}}, inner)
	require.ErrorIs(t, err, ErrPropagation)
	require.ErrorIs(t, err, geom.ErrUnknownDetector)

	_, err = FromOuterTrack(setup, opts, event.Candidate{Outer: &event.StandaloneTrack{InnerDetID: dtBack, Hits: []event.Hit{hit(dt1, 1)}}}, inner)
	require.ErrorIs(t, err, propagation.ErrNoIntersection)

	_, err = FromOuterTrack(setup, opts, event.Candidate{Outer: &event.StandaloneTrack{InnerDetID: dt1}}, inner)
	require.ErrorIs(t, err, ErrNoOuterHits)

	_, err = FromOuterTrack(setup, opts, event.Candidate{Outer: &event.StandaloneTrack{InnerDetID: dt1, Hits: []event.Hit{hit(rpc1, 1)}}}, inner)
	require.ErrorIs(t, err, ErrNoMuonHits)
}

func TestFromChamberMatchesReasons(t *testing.T) {
	testlog.Start(t)
	setup, inner := testSetup(t)
	opts := testOptions()

	_, err := FromChamberMatches(setup, opts, event.Candidate{}, inner)
	require.ErrorIs(t, err, ErrNoChamberMatches)

	_, err = FromChamberMatches(setup, opts, event.Candidate{Matches: []event.ChamberMatch{
		{ID: dtBack, Segments: []event.Hit{hit(dtBack, 1)}},
		{ID: gem1, Segments: []event.Hit{hit(gem1, 1)}},
	}}, inner)
	require.ErrorIs(t, err, ErrNoAnchor)
	require.ErrorIs(t, err, propagation.ErrNoIntersection)

	_, err = FromChamberMatches(setup, opts, event.Candidate{Matches: []event.ChamberMatch{{ID: dt1}}}, inner)
	require.ErrorIs(t, err, ErrNoMuonHits)
}

func TestInnerStateUsesTrackDetector(t *testing.T) {
	testlog.Start(t)
	_, inner := testSetup(t)

	require.Equal(t, tob, inner.Surface())
	require.Equal(t, 1, inner.Charge())
	require.InDelta(t, 10, inner.P(), 1e-12)

	var nilSetup Setup
	_, err := InnerState(nilSetup, innerTrack())
	if !errors.Is(err, trajectory.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState without geometry, got %v", err)
	}
}
