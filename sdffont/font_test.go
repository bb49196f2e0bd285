package sdffont

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func loadGoRegular(t *testing.T) *Font {
	t.Helper()
	f, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse(goregular) error: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseMetrics(t *testing.T) {
	f := loadGoRegular(t)

	if f.Name() == "" {
		t.Error("Name() is empty")
	}
	vm, err := f.VMetrics()
	if err != nil {
		t.Fatal(err)
	}
	if vm.Ascent <= 0 || vm.Descent >= 0 {
		t.Errorf("VMetrics() = %+v, want positive ascent and negative descent", vm)
	}
	if vm.LineGap < 0 {
		t.Errorf("LineGap = %d, want >= 0", vm.LineGap)
	}

	scale := f.ScaleForPixelHeight(32)
	if got := scale * float32(vm.Ascent-vm.Descent); got < 31.99 || got > 32.01 {
		t.Errorf("scaled height = %v, want 32", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("definitely not a font")); err == nil {
		t.Error("Parse() of garbage should fail")
	}
}

func TestHMetrics(t *testing.T) {
	f := loadGoRegular(t)
	m, err := f.HMetrics('M')
	if err != nil {
		t.Fatal(err)
	}
	if m.Advance <= 0 {
		t.Errorf("advance of M = %d, want > 0", m.Advance)
	}
	i, _ := f.HMetrics('i')
	if i.Advance >= m.Advance {
		t.Errorf("advance of i (%d) should be less than M (%d)", i.Advance, m.Advance)
	}
}

func TestHasGlyph(t *testing.T) {
	f := loadGoRegular(t)
	if !f.HasGlyph('a') {
		t.Error("HasGlyph('a') = false")
	}
	if f.HasGlyph(0x4E2D) {
		t.Error("HasGlyph(U+4E2D) = true, Go Regular has no CJK glyphs")
	}
}

func TestKernAdvanceIsStable(t *testing.T) {
	f := loadGoRegular(t)
	for _, pair := range [][2]rune{{'A', 'V'}, {'T', 'o'}, {'a', 'b'}} {
		first := f.KernAdvance(pair[0], pair[1])
		if again := f.KernAdvance(pair[0], pair[1]); again != first {
			t.Errorf("KernAdvance(%q, %q) changed from %d to %d", pair[0], pair[1], first, again)
		}
	}
	if got := f.KernAdvance('a', 0x4E2D); got != 0 {
		t.Errorf("KernAdvance with an unmapped rune = %d, want 0", got)
	}
}

func TestCheckFileType(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"fonts/Go-Regular.ttf", true},
		{"fonts/Inter.OTF", true},
		{"fonts/readme.txt", false},
		{"fonts/noext", false},
	}
	for _, tt := range tests {
		err := CheckFileType(tt.path)
		if tt.ok && err != nil {
			t.Errorf("CheckFileType(%q) = %v", tt.path, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedFile) {
			t.Errorf("CheckFileType(%q) = %v, want ErrUnsupportedFile", tt.path, err)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()

	if _, err := Open(filepath.Join(dir, "missing.ttf")); err == nil {
		t.Error("Open() of a missing file should fail")
	}
}

func TestClosedFont(t *testing.T) {
	f, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.GlyphSDF('a', 0.1, DefaultSDFParams()); !errors.Is(err, ErrClosed) {
		t.Errorf("GlyphSDF after Close = %v, want ErrClosed", err)
	}
	if _, err := f.VMetrics(); !errors.Is(err, ErrClosed) {
		t.Errorf("VMetrics after Close = %v, want ErrClosed", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
