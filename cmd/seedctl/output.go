package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danmuck/muonseed/internal/geom"
	"github.com/danmuck/muonseed/internal/seeding"
	"github.com/danmuck/muonseed/internal/trajectory"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type runOutput struct {
	Events []eventOutput `json:"events" yaml:"events"`
}

type eventOutput struct {
	Event   uint64          `json:"event" yaml:"event"`
	Summary seeding.Summary `json:"summary" yaml:"summary"`
	Seeds   []seedOutput    `json:"seeds" yaml:"seeds"`
}

type seedOutput struct {
	Anchor     geom.DetID                      `json:"anchor" yaml:"anchor"`
	Direction  trajectory.PropagationDirection `json:"direction" yaml:"direction"`
	Charge     int                             `json:"charge" yaml:"charge"`
	Position   [3]float64                      `json:"position" yaml:"position,flow"`
	Momentum   [3]float64                      `json:"momentum" yaml:"momentum,flow"`
	Errors     [trajectory.Dim]float64         `json:"errors" yaml:"errors,flow"`
	Covariance []float64                       `json:"covariance" yaml:"covariance,flow"`
	Hits       []hitOutput                     `json:"hits" yaml:"hits"`
}

type hitOutput struct {
	ID     geom.DetID `json:"id" yaml:"id"`
	Valid  bool       `json:"valid" yaml:"valid"`
	Values []float64  `json:"values,omitempty" yaml:"values,flow,omitempty"`
	Errors []float64  `json:"errors,omitempty" yaml:"errors,flow,omitempty"`
}

func newEventOutput(id uint64, res seeding.Result) eventOutput {
	out := eventOutput{Event: id, Summary: res.Summary, Seeds: make([]seedOutput, 0, len(res.Seeds))}
	for _, s := range res.Seeds {
		pos, mom := s.State.Position(), s.State.Momentum()
		so := seedOutput{
			Anchor:     s.Anchor(),
			Direction:  s.Direction,
			Charge:     s.State.Charge(),
			Position:   [3]float64{pos.X, pos.Y, pos.Z},
			Momentum:   [3]float64{mom.X, mom.Y, mom.Z},
			Errors:     s.State.Errors(),
			Covariance: trajectory.Packed(s.State.Covariance()),
			Hits:       make([]hitOutput, 0, len(s.Hits)),
		}
		for _, h := range s.Hits {
			so.Hits = append(so.Hits, hitOutput{ID: h.ID, Valid: h.Valid, Values: h.Values, Errors: h.Errors})
		}
		out.Seeds = append(out.Seeds, so)
	}
	return out
}

func checkFormat(format string) error {
	switch format {
	case formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}

func writeOutput(w io.Writer, format string, events []eventOutput) error {
	doc := runOutput{Events: events}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return checkFormat(format)
	}
}
