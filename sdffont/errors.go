package sdffont

import "errors"

var (
	// ErrUnsupportedFile is returned for font paths without a .ttf or .otf
	// extension.
	ErrUnsupportedFile = errors.New("sdffont: unsupported font file")

	// ErrDuplicateFont is returned when a name is registered twice.
	ErrDuplicateFont = errors.New("sdffont: font already registered")

	// ErrTableFull is returned when every font ID is in use.
	ErrTableFull = errors.New("sdffont: font table full")

	// ErrEmptyName is returned when a font is registered without a name.
	ErrEmptyName = errors.New("sdffont: empty font name")

	// ErrClosed is returned by a closed font.
	ErrClosed = errors.New("sdffont: font closed")
)
