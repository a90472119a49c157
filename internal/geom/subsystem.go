package geom

// Subsystem tags the detector technology behind a hit.
type Subsystem string

const (
	SubsystemDT    Subsystem = "dt"
	SubsystemCSC   Subsystem = "csc"
	SubsystemRPC   Subsystem = "rpc"
	SubsystemGEM   Subsystem = "gem"
	SubsystemME0   Subsystem = "me0"
	SubsystemPixel Subsystem = "pixel"
	SubsystemStrip Subsystem = "strip"
	SubsystemOther Subsystem = "other"
)

// IsMuonChamber is true only for drift-tube and cathode-strip chambers.
func (s Subsystem) IsMuonChamber() bool {
	return s == SubsystemDT || s == SubsystemCSC
}
