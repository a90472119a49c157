package seeding

import (
	"errors"
	"fmt"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/trajectory"
	"github.com/rs/zerolog"
)

// Result is the output of one event.
type Result struct {
	Seeds   []Seed
	Summary Summary
}

// Builder runs both strategies over every candidate of an event. It holds
// only immutable configuration and may serve events concurrently.
type Builder struct {
	opts    Options
	cleaner Cleaner
	logger  zerolog.Logger

	outer   Strategy
	chamber Strategy
}

// NewBuilder validates opts. A nil cleaner keeps every raw seed.
func NewBuilder(opts Options, cleaner Cleaner, logger zerolog.Logger) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if cleaner == nil {
		cleaner = Passthrough
	}
	return &Builder{
		opts:    opts,
		cleaner: cleaner,
		logger:  logger.With().Str("component", "seeding").Logger(),
		outer:   FromOuterTrack,
		chamber: FromChamberMatches,
	}, nil
}

func (b *Builder) Options() Options {
	return b.opts
}

// Build seeds one event. A propagator that cannot be resolved aborts the
// event with ErrPropagatorUnavailable and a zero Result; an event that
// simply yields nothing returns an empty, non-nil Seeds slice.
func (b *Builder) Build(svc Services, ev event.Event) (Result, error) {
	setup, err := ResolveSetup(svc, b.opts.Propagator)
	if err != nil {
		b.logger.Error().Err(err).Uint64("event", ev.ID).Msg("seeding aborted")
		return Result{}, err
	}

	summary := Summary{Event: ev.ID, Candidates: len(ev.Candidates)}
	raw := make([]Seed, 0, len(ev.Candidates))
	for i, c := range ev.Candidates {
		seed, outcome, reason := b.seedCandidate(setup, c)
		summary.add(outcome)
		if c.Outer != nil && outcome.Attempted() {
			summary.OuterHitsSeen += len(c.Outer.Hits)
		}
		if outcome.Seeded() {
			raw = append(raw, seed)
			if outcome == OutcomeOuterTrack {
				summary.OuterHitsKept += seed.NHits()
			}
		}
		if b.opts.Debug {
			e := b.logger.Info().
				Uint64("event", ev.ID).
				Int("candidate", i).
				Str("outcome", outcome.String())
			if outcome.Seeded() {
				e = e.Stringer("anchor", seed.Anchor()).Int("hits", seed.NHits())
			}
			e.AnErr("reason", reason).Msg("candidate")
		}
	}
	summary.Raw = len(raw)

	seeds := b.cleaner.Clean(raw)
	if seeds == nil {
		seeds = []Seed{}
	}
	summary.Cleaned = len(seeds)

	b.logger.Info().EmbedObject(summary).Msg("seeding summary")
	return Result{Seeds: seeds, Summary: summary}, nil
}

func (b *Builder) seedCandidate(setup Setup, c event.Candidate) (Seed, Outcome, error) {
	if c.Inner == nil {
		return Seed{}, OutcomeNoInnerTrack, nil
	}
	if !b.opts.Quality.Pass(c.Inner) {
		return Seed{}, OutcomeFailedQuality, nil
	}
	inner, err := InnerState(setup, c.Inner)
	if err != nil {
		return Seed{}, OutcomeInvalidInnerState, err
	}

	seed, outerErr := b.outer(setup, b.opts, c, inner)
	if outerErr == nil {
		return seed, OutcomeOuterTrack, nil
	}
	seed, chamberErr := b.chamber(setup, b.opts, c, inner)
	if chamberErr == nil {
		return seed, OutcomeChamberMatches, nil
	}
	return Seed{}, OutcomeNoSeed, errors.Join(outerErr, chamberErr)
}

// InnerState derives the trajectory state at the outermost tracker surface
// of t. The surface must exist in the event geometry.
func InnerState(setup Setup, t *event.Track) (trajectory.State, error) {
	if t.OuterCovariance == nil {
		return trajectory.State{}, fmt.Errorf("%w: inner track has no covariance", trajectory.ErrInvalidState)
	}
	if !setup.Geometry.Has(t.OuterDetID) {
		return trajectory.State{}, fmt.Errorf("%w: outermost surface %s not in geometry", trajectory.ErrInvalidState, t.OuterDetID)
	}
	return trajectory.NewState(t.OuterPosition, t.OuterMomentum, t.Charge, t.OuterCovariance, t.OuterDetID)
}
