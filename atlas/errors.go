package atlas

import "errors"

var (
	// ErrInvalidSize is returned when a buffer dimension is not positive.
	ErrInvalidSize = errors.New("atlas: invalid size")

	// ErrOutOfBounds is returned when a blit does not fit inside the buffer.
	ErrOutOfBounds = errors.New("atlas: blit out of bounds")

	// ErrShortBitmap is returned when a bitmap holds fewer bytes than its
	// dimensions require.
	ErrShortBitmap = errors.New("atlas: bitmap too short")
)
