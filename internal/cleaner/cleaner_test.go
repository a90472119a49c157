package cleaner

import (
	"errors"
	"testing"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/seeding"
	"github.com/danmuck/muonseed/internal/testutil/testlog"
	"github.com/stretchr/testify/require"
)

func seedWith(ids ...geom.DetID) seeding.Seed {
	hits := make([]event.Hit, 0, len(ids))
	for i, id := range ids {
		hits = append(hits, event.Hit{ID: id, Valid: true, Values: []float64{float64(i)}})
	}
	return seeding.Seed{Hits: hits}
}

func TestByName(t *testing.T) {
	testlog.Start(t)

	for _, name := range []string{"", "passthrough", " Duplicates "} {
		c, err := ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, c)
	}
	_, err := ByName("arbitrator")
	if !errors.Is(err, ErrUnknownCleaner) {
		t.Fatalf("expected ErrUnknownCleaner, got %v", err)
	}
	require.Equal(t, []string{NameDuplicates, NamePassthrough}, Names())
}

func TestCleanersAcceptEmptyInput(t *testing.T) {
	testlog.Start(t)

	for _, name := range Names() {
		c, err := ByName(name)
		require.NoError(t, err)
		require.Empty(t, c.Clean(nil), name)
		require.Empty(t, c.Clean([]seeding.Seed{}), name)
	}
}

func TestDuplicatesKeepsFirstOccurrence(t *testing.T) {
	testlog.Start(t)

	dt1 := geom.MustDetID(geom.DetMuon, geom.SubDT, 1)
	dt2 := geom.MustDetID(geom.DetMuon, geom.SubDT, 2)
	csc := geom.MustDetID(geom.DetMuon, geom.SubCSC, 3)

	in := []seeding.Seed{
		seedWith(dt1, csc),
		seedWith(dt2),
		seedWith(dt1, csc),
		seedWith(csc, dt1),
		seedWith(dt2),
	}
	out := Duplicates{}.Clean(in)
	require.Len(t, out, 3)
	require.Equal(t, in[0].Hits, out[0].Hits)
	require.Equal(t, in[1].Hits, out[1].Hits)
	require.Equal(t, in[3].Hits, out[2].Hits)

	// Same detectors, different measurements.
	shifted := seedWith(dt2)
	shifted.Hits[0].Values[0] = 5
	require.Len(t, Duplicates{}.Clean([]seeding.Seed{seedWith(dt2), shifted}), 2)
}
