package glyph

import "testing"

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	small, _ := NewKey('a', 16, 1)
	large, _ := NewKey('a', 48, 1)

	s.Put(small, &Record{Codepoint: 'a', Width: 8, Height: 9, SDF: make([]byte, 72)})
	s.Put(large, &Record{Codepoint: 'a', Width: 20, Height: 22, SDF: make([]byte, 440)})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Bytes() != 512 {
		t.Errorf("Bytes() = %d, want 512", s.Bytes())
	}
	r, ok := s.Get(small)
	if !ok || r.Width != 8 {
		t.Errorf("Get(small) = %+v, %v", r, ok)
	}
	r, ok = s.Get(large)
	if !ok || r.Width != 20 {
		t.Errorf("Get(large) = %+v, %v", r, ok)
	}
	if missing, _ := NewKey('b', 16, 1); s.Has(missing) {
		t.Error("Has() reported a key that was never stored")
	}
}

func TestStoreReplaceAccountsBytes(t *testing.T) {
	s := NewStore()
	k, _ := NewKey('x', 10, 1)
	s.Put(k, &Record{SDF: make([]byte, 100)})
	s.Put(k, &Record{SDF: make([]byte, 30)})
	if s.Len() != 1 || s.Bytes() != 30 {
		t.Errorf("Len, Bytes = %d, %d; want 1, 30", s.Len(), s.Bytes())
	}
}

func TestStoreDeleteFont(t *testing.T) {
	s := NewStore()
	for cp := 'a'; cp <= 'e'; cp++ {
		k1, _ := NewKey(cp, 12, 1)
		k2, _ := NewKey(cp, 12, 2)
		s.Put(k1, &Record{SDF: []byte{1}})
		s.Put(k2, &Record{SDF: []byte{1}})
	}
	if n := s.DeleteFont(1); n != 5 {
		t.Errorf("DeleteFont(1) = %d, want 5", n)
	}
	s.Range(func(k Key, _ *Record) bool {
		if k.Font == 1 {
			t.Errorf("record %v survived DeleteFont", k)
		}
		return true
	})
	s.Clear()
	if s.Len() != 0 || s.Bytes() != 0 {
		t.Errorf("after Clear: Len %d, Bytes %d", s.Len(), s.Bytes())
	}
}
