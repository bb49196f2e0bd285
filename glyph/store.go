package glyph

// Store maps keys to records. It is not safe for concurrent use.
type Store struct {
	records map[Key]*Record
	bytes   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[Key]*Record, 256)}
}

// Get returns the record for k.
func (s *Store) Get(k Key) (*Record, bool) {
	r, ok := s.records[k]
	return r, ok
}

// Has reports whether a record exists for k.
func (s *Store) Has(k Key) bool {
	_, ok := s.records[k]
	return ok
}

// Put stores r under k, replacing any previous record.
func (s *Store) Put(k Key, r *Record) {
	if old, ok := s.records[k]; ok {
		s.bytes -= len(old.SDF)
	}
	s.records[k] = r
	s.bytes += len(r.SDF)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Bytes returns the total size of the owned SDF bitmaps.
func (s *Store) Bytes() int {
	return s.bytes
}

// DeleteFont drops every record for font and returns how many went.
func (s *Store) DeleteFont(font FontID) int {
	n := 0
	for k, r := range s.records {
		if k.Font == font {
			s.bytes -= len(r.SDF)
			delete(s.records, k)
			n++
		}
	}
	return n
}

// Range calls fn for each record until fn returns false. Order is
// unspecified.
func (s *Store) Range(fn func(Key, *Record) bool) {
	for k, r := range s.records {
		if !fn(k, r) {
			return
		}
	}
}

// Clear drops every record.
func (s *Store) Clear() {
	clear(s.records)
	s.bytes = 0
}
