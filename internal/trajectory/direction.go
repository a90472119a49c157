package trajectory

// PropagationDirection constrains the sign of the path length.
type PropagationDirection int

const (
	AlongMomentum PropagationDirection = iota
	OppositeToMomentum
	AnyDirection
)

func (d PropagationDirection) String() string {
	switch d {
	case AlongMomentum:
		return "alongMomentum"
	case OppositeToMomentum:
		return "oppositeToMomentum"
	case AnyDirection:
		return "anyDirection"
	default:
		return "unknown"
	}
}

func (d PropagationDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
