package gpu

import "errors"

var (
	// ErrInvalidSize is returned for non-positive texture dimensions.
	ErrInvalidSize = errors.New("gpu: invalid texture size")

	// ErrForeignTexture is returned when a texture from another device is
	// passed in.
	ErrForeignTexture = errors.New("gpu: texture not created by this device")

	// ErrTextureDestroyed is returned when using a destroyed texture.
	ErrTextureDestroyed = errors.New("gpu: texture destroyed")

	// ErrRegionOutOfBounds is returned when an update region leaves the
	// texture.
	ErrRegionOutOfBounds = errors.New("gpu: region out of bounds")

	// ErrShortData is returned when an update holds fewer bytes than its
	// region requires.
	ErrShortData = errors.New("gpu: not enough pixel data")

	// ErrUnsupportedTarget is returned for a target type the device cannot
	// draw into.
	ErrUnsupportedTarget = errors.New("gpu: unsupported render target")

	// ErrNoHALAccess is returned when a device provider does not expose HAL
	// types.
	ErrNoHALAccess = errors.New("gpu: provider does not expose HAL types")
)
