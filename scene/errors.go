package scene

import "errors"

var (
	// ErrCapacity is returned when a scene exceeds the compiler's object or group limits.
	ErrCapacity = errors.New("scene capacity exceeded")
	// ErrMalformed is returned for object definitions the compiler cannot represent.
	ErrMalformed = errors.New("malformed scene")
)
