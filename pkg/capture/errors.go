package capture

import "errors"

var (
	// ErrStopped is returned when Start is called on a stopped loop.
	ErrStopped = errors.New("capture: loop already stopped")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("capture: loop already started")

	// ErrInvalidFPS is returned for non-positive or non-finite frame rates.
	ErrInvalidFPS = errors.New("capture: fps must be a positive finite number")
)
