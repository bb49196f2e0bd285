package atlas

import (
	"fmt"
	"image"
)

// SyncMode selects how much of the buffer Sync uploads.
type SyncMode int

const (
	// SyncDirty uploads the dirty rectangle only.
	SyncDirty SyncMode = iota
	// SyncFull uploads the whole buffer whenever anything is dirty.
	SyncFull
)

// String returns the mode name.
func (m SyncMode) String() string {
	switch m {
	case SyncDirty:
		return "dirty"
	case SyncFull:
		return "full"
	default:
		return fmt.Sprintf("SyncMode(%d)", int(m))
	}
}

// ParseSyncMode maps a mode name back to its value.
func ParseSyncMode(s string) (SyncMode, error) {
	switch s {
	case "dirty", "":
		return SyncDirty, nil
	case "full":
		return SyncFull, nil
	}
	return SyncDirty, fmt.Errorf("atlas: unknown sync mode %q", s)
}

// Uploader receives atlas regions, bottom row first and tightly packed.
type Uploader interface {
	Upload(region image.Rectangle, pix []byte) error
}

// UploadFunc adapts a function to Uploader.
type UploadFunc func(region image.Rectangle, pix []byte) error

// Upload calls f.
func (f UploadFunc) Upload(region image.Rectangle, pix []byte) error {
	return f(region, pix)
}

// Sync uploads pending changes and returns the number of bytes sent. The
// dirty region is kept if the upload fails.
func (b *Buffer) Sync(u Uploader, mode SyncMode) (int, error) {
	if !b.IsDirty() {
		return 0, nil
	}
	region := b.dirty
	if mode == SyncFull {
		region = b.Bounds()
	}
	pix := b.Region(region)
	if err := u.Upload(region, pix); err != nil {
		return 0, fmt.Errorf("atlas: upload %v: %w", region, err)
	}
	b.dirty = image.Rectangle{}
	return len(pix), nil
}
