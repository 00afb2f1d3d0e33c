package expander

import "github.com/pkg/errors"

// Every error returned by this package wraps one of these; match with
// errors.Is.
var (
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidScale       = errors.New("invalid scale")
	ErrInvalidCrop        = errors.New("invalid crop")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrInvalidConvention  = errors.New("invalid mask convention")
)
