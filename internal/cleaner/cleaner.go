// Package cleaner provides seed cleaners behind the seeding.Cleaner
// contract. Cleaners never fail and accept empty input.
package cleaner

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danmuck/muonseed/internal/event"
	"github.com/danmuck/muonseed/internal/seeding"
)

var ErrUnknownCleaner = errors.New("unknown cleaner")

const (
	NamePassthrough = "passthrough"
	NameDuplicates  = "duplicates"
)

var builtin = map[string]func() seeding.Cleaner{
	NamePassthrough: func() seeding.Cleaner { return seeding.Passthrough },
	NameDuplicates:  func() seeding.Cleaner { return Duplicates{} },
}

// ByName returns a built-in cleaner. An empty name selects passthrough.
func ByName(name string) (seeding.Cleaner, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = NamePassthrough
	}
	mk, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCleaner, name)
	}
	return mk(), nil
}

// Names lists the built-in cleaners in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Duplicates drops every seed whose hits match those of an earlier seed,
// hit by hit on detector id and measurement values. Survivors keep their
// input order.
type Duplicates struct{}

func (Duplicates) Clean(seeds []seeding.Seed) []seeding.Seed {
	out := make([]seeding.Seed, 0, len(seeds))
	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		key := hitKey(s.Hits)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// hitKey identifies a hit sequence by detector and measurement values.
func hitKey(hits []event.Hit) string {
	var b strings.Builder
	for _, h := range hits {
		b.WriteString(strconv.FormatUint(uint64(h.ID), 16))
		for _, v := range h.Values {
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte(';')
	}
	return b.String()
}
