// Package pack implements an incremental guillotine rectangle packer.
//
// A Packer owns a list of free slots inside a fixed-size bin. Each call to
// Pack places a batch of rectangles into those slots and splits every
// consumed slot into at most two remainders. The bin is never repacked, so
// placements from earlier calls stay valid for the packer's lifetime.
//
// Coordinates are bottom-left based: a placement at (0, 0) touches the
// bottom-left corner of the bin.
//
// Rectangles that do not fit are dropped from the result without an error.
// Callers detect exhaustion by comparing the output against their input.
package pack
