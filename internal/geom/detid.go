package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Det is the top-level detector a DetID belongs to.
type Det uint8

const (
	DetUnknown Det = iota
	DetTracker
	DetMuon
)

// Tracker subdetectors.
const (
	SubPixelBarrel uint8 = 1
	SubPixelEndcap uint8 = 2
	SubTIB         uint8 = 3
	SubTID         uint8 = 4
	SubTOB         uint8 = 5
	SubTEC         uint8 = 6
)

// Muon subdetectors.
const (
	SubDT  uint8 = 1
	SubCSC uint8 = 2
	SubRPC uint8 = 3
	SubGEM uint8 = 4
	SubME0 uint8 = 5
)

const (
	detShift    = 28
	subShift    = 25
	detMask     = 0xF
	subMask     = 0x7
	indexMask   = (1 << subShift) - 1
	maxDetIndex = indexMask
)

var ErrInvalidDetID = errors.New("invalid detector id")

// DetID packs detector, subdetector and a local index into 32 bits.
type DetID uint32

// NewDetID builds an id; index bits above the index field are rejected.
func NewDetID(det Det, sub uint8, index uint32) (DetID, error) {
	if det == DetUnknown || uint32(det) > detMask {
		return 0, fmt.Errorf("%w: det %d", ErrInvalidDetID, det)
	}
	if sub == 0 || uint32(sub) > subMask {
		return 0, fmt.Errorf("%w: subdet %d", ErrInvalidDetID, sub)
	}
	if index > maxDetIndex {
		return 0, fmt.Errorf("%w: index %d out of range", ErrInvalidDetID, index)
	}
	return DetID(uint32(det)<<detShift | uint32(sub)<<subShift | index), nil
}

// MustDetID is NewDetID for static tables and tests.
func MustDetID(det Det, sub uint8, index uint32) DetID {
	id, err := NewDetID(det, sub, index)
	if err != nil {
		panic(err)
	}
	return id
}

func (id DetID) Det() Det      { return Det((uint32(id) >> detShift) & detMask) }
func (id DetID) SubDet() uint8 { return uint8((uint32(id) >> subShift) & subMask) }
func (id DetID) Index() uint32 { return uint32(id) & indexMask }

// Subsystem classifies the id.
func (id DetID) Subsystem() Subsystem {
	switch id.Det() {
	case DetMuon:
		switch id.SubDet() {
		case SubDT:
			return SubsystemDT
		case SubCSC:
			return SubsystemCSC
		case SubRPC:
			return SubsystemRPC
		case SubGEM:
			return SubsystemGEM
		case SubME0:
			return SubsystemME0
		}
	case DetTracker:
		switch id.SubDet() {
		case SubPixelBarrel, SubPixelEndcap:
			return SubsystemPixel
		case SubTIB, SubTID, SubTOB, SubTEC:
			return SubsystemStrip
		}
	}
	return SubsystemOther
}

// IsMuonChamber reports whether hits on this id may be used in a muon seed.
func (id DetID) IsMuonChamber() bool {
	return id.Subsystem().IsMuonChamber()
}

func (id DetID) String() string {
	det, ok := detNames[id.Det()]
	if !ok {
		return fmt.Sprintf("raw/%d", uint32(id))
	}
	sub, ok := subNames[id.Det()][id.SubDet()]
	if !ok {
		return fmt.Sprintf("raw/%d", uint32(id))
	}
	return det + "/" + sub + "/" + strconv.FormatUint(uint64(id.Index()), 10)
}

// ParseDetID accepts "det/subdet/index" (e.g. "muon/dt/12") or "raw/<uint32>".
func ParseDetID(raw string) (DetID, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "/")
	if len(parts) == 2 && parts[0] == "raw" {
		v, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDetID, raw)
		}
		return DetID(v), nil
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDetID, raw)
	}
	var det Det
	for d, name := range detNames {
		if name == parts[0] {
			det = d
		}
	}
	if det == DetUnknown {
		return 0, fmt.Errorf("%w: unknown det in %q", ErrInvalidDetID, raw)
	}
	var sub uint8
	for s, name := range subNames[det] {
		if name == parts[1] {
			sub = s
		}
	}
	if sub == 0 {
		return 0, fmt.Errorf("%w: unknown subdet in %q", ErrInvalidDetID, raw)
	}
	index, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: index in %q", ErrInvalidDetID, raw)
	}
	return NewDetID(det, sub, uint32(index))
}

func (id DetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DetID) UnmarshalText(text []byte) error {
	parsed, err := ParseDetID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

var detNames = map[Det]string{
	DetTracker: "tracker",
	DetMuon:    "muon",
}

var subNames = map[Det]map[uint8]string{
	DetTracker: {
		SubPixelBarrel: "pxb",
		SubPixelEndcap: "pxf",
		SubTIB:         "tib",
		SubTID:         "tid",
		SubTOB:         "tob",
		SubTEC:         "tec",
	},
	DetMuon: {
		SubDT:  "dt",
		SubCSC: "csc",
		SubRPC: "rpc",
		SubGEM: "gem",
		SubME0: "me0",
	},
}
