package propagation

import "errors"

var (
	ErrNoIntersection = errors.New("no intersection with target surface")
	ErrDiverged       = errors.New("propagation diverged")
	ErrOutOfBounds    = errors.New("crossing outside target bounds")
	ErrInvalidState   = errors.New("invalid source state")
)
