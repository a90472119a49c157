package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/muonseed/internal/seeding"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "muonseed"

const (
	StatusOK      = "ok"
	StatusAborted = "aborted"
)

var (
	registerOnce sync.Once

	seedingCandidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "candidates_total",
			Help:      "Candidates processed, by per-candidate outcome.",
		},
		[]string{"outcome"},
	)
	seedingSeeds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "seeds_total",
			Help:      "Seeds produced, before (raw) and after (cleaned) cleaning.",
		},
		[]string{"stage"},
	)
	seedingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "events_total",
			Help:      "Events seeded, by status.",
		},
		[]string{"status"},
	)
	seedingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "seeding",
			Name:      "event_duration_seconds",
			Help:      "Per-event seeding duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(seedingCandidates, seedingSeeds, seedingEvents, seedingDuration)
	})
}

// RecordSummary adds one successfully seeded event.
func RecordSummary(s seeding.Summary, duration time.Duration) {
	RegisterMetrics()
	for _, o := range seeding.Outcomes {
		seedingCandidates.WithLabelValues(o.String()).Add(float64(s.Count(o)))
	}
	seedingSeeds.WithLabelValues("raw").Add(float64(s.Raw))
	seedingSeeds.WithLabelValues("cleaned").Add(float64(s.Cleaned))
	seedingEvents.WithLabelValues(StatusOK).Inc()
	seedingDuration.WithLabelValues(StatusOK).Observe(duration.Seconds())
}

// RecordAborted adds one event aborted by a configuration fault.
func RecordAborted(duration time.Duration) {
	RegisterMetrics()
	seedingEvents.WithLabelValues(StatusAborted).Inc()
	seedingDuration.WithLabelValues(StatusAborted).Observe(duration.Seconds())
}

// WriteMetrics dumps the muonseed metric families in the text exposition
// format.
func WriteMetrics(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range ownFamilies(families) {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func ownFamilies(in []*dto.MetricFamily) []*dto.MetricFamily {
	out := make([]*dto.MetricFamily, 0, len(in))
	for _, mf := range in {
		if strings.HasPrefix(mf.GetName(), namespace+"_") {
			out = append(out, mf)
		}
	}
	return out
}
