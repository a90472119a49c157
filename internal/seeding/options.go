package seeding

import (
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/propagation"
)

var ErrInvalidOptions = errors.New("invalid seeding options")

// Options configure a Builder. They are immutable once the Builder exists.
type Options struct {
	// ScaleInnerStateError multiplies the propagated state's uncertainties.
	ScaleInnerStateError float64
	Propagator           string
	Debug                bool
	// ValidHitsOnly drops outer-track hits flagged invalid.
	ValidHitsOnly bool
	Quality       QualityCuts
}

func DefaultOptions() Options {
	return Options{
		ScaleInnerStateError: 1,
		Propagator:           propagation.SteppingHelixAlong,
	}
}

func (o Options) Validate() error {
	if math.IsNaN(o.ScaleInnerStateError) || math.IsInf(o.ScaleInnerStateError, 0) || o.ScaleInnerStateError <= 0 {
		return fmt.Errorf("%w: scale_inner_state_error must be positive, got %v", ErrInvalidOptions, o.ScaleInnerStateError)
	}
	if err := propagation.ValidateName(o.Propagator); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := o.Quality.Validate(); err != nil {
		return err
	}
	return nil
}

// QualityCuts is an optional inner-track selection applied before seeding.
// Zero thresholds disable the individual cut.
type QualityCuts struct {
	Enabled           bool
	MaxNormalizedChi2 float64
	MinValidHits      int
	MinPixelHits      int
}

func (q QualityCuts) Validate() error {
	if q.MaxNormalizedChi2 < 0 || q.MinValidHits < 0 || q.MinPixelHits < 0 {
		return fmt.Errorf("%w: quality thresholds must not be negative", ErrInvalidOptions)
	}
	return nil
}

// Pass reports whether t survives the cuts. Disabled cuts pass everything.
func (q QualityCuts) Pass(t *event.Track) bool {
	if !q.Enabled {
		return true
	}
	if q.MaxNormalizedChi2 > 0 && t.NormalizedChi2() > q.MaxNormalizedChi2 {
		return false
	}
	if t.Pattern.ValidTrackerHits < q.MinValidHits {
		return false
	}
	if t.Pattern.ValidPixelHits < q.MinPixelHits {
		return false
	}
	return true
}
