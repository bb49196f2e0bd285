package pack

import (
	"image"
	"slices"
)

// RectIn is a packing request. UserData is returned untouched with the
// placement so callers can match results back to their own records.
// Size must be positive in both dimensions; Pack does not check it.
type RectIn struct {
	Size     image.Point
	UserData uint64
}

// RectOut is a placement produced by Pack.
type RectOut struct {
	BottomLeft image.Point
	Size       image.Point
	UserData   uint64
}

// Bounds returns the placement as a rectangle in bin coordinates.
func (r RectOut) Bounds() image.Rectangle {
	return image.Rectangle{Min: r.BottomLeft, Max: r.BottomLeft.Add(r.Size)}
}

// Slot is a free region of the bin.
type Slot struct {
	BottomLeft image.Point
	Size       image.Point
}

// Bounds returns the slot as a rectangle in bin coordinates.
func (s Slot) Bounds() image.Rectangle {
	return image.Rectangle{Min: s.BottomLeft, Max: s.BottomLeft.Add(s.Size)}
}

func (s Slot) empty() bool {
	return s.Size.X <= 0 || s.Size.Y <= 0
}

// Packer places rectangles into a fixed-size bin using guillotine splits.
//
// Free slots are pairwise disjoint and never overlap a placement. A Packer
// is not safe for concurrent use.
type Packer struct {
	width, height int
	criteria      SortCriteria
	free          []Slot

	usedArea int
}

// New creates a packer for a width x height bin. The bin starts as a single
// free slot.
func New(width, height int, criteria SortCriteria) *Packer {
	p := &Packer{
		width:    width,
		height:   height,
		criteria: criteria,
		free:     make([]Slot, 0, 64),
	}
	p.Reset()
	return p
}

// Pack places rects and returns the placements that succeeded.
//
// The batch is ordered by the packer's SortCriteria, descending, with ties
// kept in input order. The input slice is not modified. Each rectangle goes
// into the most recently added free slot that can hold it, at that slot's
// bottom-left corner. A rectangle with no fitting slot is dropped; once no
// free slot remains at all, the rest of the batch is dropped.
func (p *Packer) Pack(rects []RectIn) []RectOut {
	if len(rects) == 0 {
		return nil
	}

	sorted := slices.Clone(rects)
	slices.SortStableFunc(sorted, func(a, b RectIn) int {
		return p.criteria.compare(a.Size, b.Size)
	})

	out := make([]RectOut, 0, len(sorted))
	for _, r := range sorted {
		if len(p.free) == 0 {
			break
		}

		i := p.findSlot(r.Size)
		if i < 0 {
			continue
		}

		slot := p.free[i]
		out = append(out, RectOut{
			BottomLeft: slot.BottomLeft,
			Size:       r.Size,
			UserData:   r.UserData,
		})
		p.usedArea += r.Size.X * r.Size.Y
		p.split(i, r.Size)
	}
	return out
}

// findSlot scans from the back of the free list and returns the index of
// the first slot that can hold size, or -1.
func (p *Packer) findSlot(size image.Point) int {
	for i := len(p.free) - 1; i >= 0; i-- {
		s := p.free[i].Size
		if s.X >= size.X && s.Y >= size.Y {
			return i
		}
	}
	return -1
}

// split consumes free[i] for a placement of the given size.
func (p *Packer) split(i int, size image.Point) {
	slot := p.free[i]

	// Right of the placement, same height as the placement.
	smaller := Slot{
		BottomLeft: image.Pt(slot.BottomLeft.X+size.X, slot.BottomLeft.Y),
		Size:       image.Pt(slot.Size.X-size.X, size.Y),
	}
	// Above the placement, full width of the slot.
	bigger := Slot{
		BottomLeft: image.Pt(slot.BottomLeft.X, slot.BottomLeft.Y+size.Y),
		Size:       image.Pt(slot.Size.X, slot.Size.Y-size.Y),
	}
	if p.criteria.greater(smaller.Size, bigger.Size) {
		smaller, bigger = bigger, smaller
	}

	last := len(p.free) - 1
	p.free[i] = p.free[last]
	p.free = p.free[:last]

	if !bigger.empty() {
		p.free = append(p.free, bigger)
	}
	if !smaller.empty() {
		p.free = append(p.free, smaller)
	}
}

// Reset forgets every placement and restores the single full-bin slot.
func (p *Packer) Reset() {
	p.free = p.free[:0]
	p.usedArea = 0
	if p.width > 0 && p.height > 0 {
		p.free = append(p.free, Slot{Size: image.Pt(p.width, p.height)})
	}
}

// Size returns the bin dimensions.
func (p *Packer) Size() (width, height int) {
	return p.width, p.height
}

// Criteria returns the sort criteria the packer was built with.
func (p *Packer) Criteria() SortCriteria {
	return p.criteria
}

// FreeSlots returns a copy of the current free list, in list order.
func (p *Packer) FreeSlots() []Slot {
	return slices.Clone(p.free)
}

// Utilization returns the fraction of the bin covered by placements.
func (p *Packer) Utilization() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}
