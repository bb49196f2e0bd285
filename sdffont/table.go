package sdffont

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/sdftext/glyph"
)

// Table owns the registered fonts and hands out their IDs.
//
// IDs start at 1 and are never reused, so a key built for a removed font
// cannot alias a newer one. The table closes every rasterizer it owns.
type Table struct {
	byName map[string]glyph.FontID
	byID   map[glyph.FontID]*tableEntry
	next   glyph.FontID
}

type tableEntry struct {
	name string
	r    Rasterizer
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		byName: make(map[string]glyph.FontID),
		byID:   make(map[glyph.FontID]*tableEntry),
		next:   1,
	}
}

// Add registers r under name and takes ownership of it. On error the
// caller keeps ownership.
func (t *Table) Add(name string, r Rasterizer) (glyph.FontID, error) {
	if name == "" {
		return glyph.InvalidFont, ErrEmptyName
	}
	if r == nil {
		return glyph.InvalidFont, fmt.Errorf("sdffont: nil rasterizer for %q", name)
	}
	if _, ok := t.byName[name]; ok {
		return glyph.InvalidFont, fmt.Errorf("%w: %q", ErrDuplicateFont, name)
	}
	if t.next > glyph.MaxFontID {
		return glyph.InvalidFont, fmt.Errorf("%w: %d fonts", ErrTableFull, glyph.MaxFontID)
	}

	id := t.next
	t.next++
	t.byName[name] = id
	t.byID[id] = &tableEntry{name: name, r: r}
	slogger().Debug("sdffont: font registered", "name", name, "id", id)
	return id, nil
}

// Lookup returns the ID and rasterizer registered under name.
func (t *Table) Lookup(name string) (glyph.FontID, Rasterizer, bool) {
	id, ok := t.byName[name]
	if !ok {
		return glyph.InvalidFont, nil, false
	}
	return id, t.byID[id].r, true
}

// ByID returns the rasterizer for id.
func (t *Table) ByID(id glyph.FontID) (Rasterizer, bool) {
	e, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return e.r, true
}

// Contains reports whether name is registered.
func (t *Table) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns the registered names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered fonts.
func (t *Table) Len() int { return len(t.byName) }

// Remove unregisters name, closes its rasterizer and returns its ID.
func (t *Table) Remove(name string) (glyph.FontID, error) {
	id, ok := t.byName[name]
	if !ok {
		return glyph.InvalidFont, fmt.Errorf("sdffont: font %q not registered", name)
	}
	e := t.byID[id]
	delete(t.byName, name)
	delete(t.byID, id)
	if err := e.r.Close(); err != nil {
		return id, fmt.Errorf("sdffont: close %q: %w", name, err)
	}
	return id, nil
}

// Close closes every rasterizer and empties the table.
func (t *Table) Close() error {
	var errs []error
	for id, e := range t.byID {
		if err := e.r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sdffont: close %q: %w", e.name, err))
		}
		delete(t.byID, id)
	}
	clear(t.byName)
	return errors.Join(errs...)
}
