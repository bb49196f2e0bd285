// Package atlas provides the CPU mirror of a single-channel glyph atlas
// texture.
//
// A Buffer stores width*height bytes with row 0 at the bottom of the atlas,
// which is also the first row uploaded to the GPU texture. A texture
// coordinate v = y/height therefore addresses atlas row y directly.
// Bitmaps are blitted top row first and flipped into place.
//
// Every blit grows a dirty rectangle. Sync pushes either that rectangle or
// the whole buffer through an Uploader and clears it on success.
package atlas
