package sdffont

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/sdftext/glyph"
)

// stubRasterizer counts Close calls.
type stubRasterizer struct {
	name   string
	closed int
	err    error
}

func (s *stubRasterizer) Name() string                           { return s.name }
func (s *stubRasterizer) VMetrics() (VMetrics, error)            { return VMetrics{Ascent: 8, Descent: -2}, nil }
func (s *stubRasterizer) ScaleForPixelHeight(px float32) float32 { return px / 10 }
func (s *stubRasterizer) HMetrics(rune) (HMetrics, error)        { return HMetrics{Advance: 6}, nil }
func (s *stubRasterizer) KernAdvance(a, b rune) int              { return 0 }
func (s *stubRasterizer) HasGlyph(rune) bool                     { return true }
func (s *stubRasterizer) GlyphSDF(rune, float32, SDFParams) (Bitmap, error) {
	return Bitmap{}, nil
}
func (s *stubRasterizer) Close() error {
	s.closed++
	return s.err
}

// --- Test Suite Preparation ------------------------------------------------

type TableTestEnviron struct {
	suite.Suite
	table *Table
}

func TestTable(t *testing.T) {
	suite.Run(t, new(TableTestEnviron))
}

// run before each test method
func (env *TableTestEnviron) SetupTest() {
	env.table = NewTable()
}

func (env *TableTestEnviron) TearDownTest() {
	env.NoError(env.table.Close())
}

// --- Tests -----------------------------------------------------------------

func (env *TableTestEnviron) TestIDsStartAtOne() {
	a, err := env.table.Add("a", &stubRasterizer{})
	env.Require().NoError(err)
	b, err := env.table.Add("b", &stubRasterizer{})
	env.Require().NoError(err)

	env.Equal(glyph.FontID(1), a)
	env.Equal(glyph.FontID(2), b)
	env.Equal(2, env.table.Len())
	env.Equal([]string{"a", "b"}, env.table.Names())
}

func (env *TableTestEnviron) TestLookup() {
	r := &stubRasterizer{name: "mono"}
	id, err := env.table.Add("mono", r)
	env.Require().NoError(err)

	gotID, gotR, ok := env.table.Lookup("mono")
	env.True(ok)
	env.Equal(id, gotID)
	env.Same(r, gotR)

	byID, ok := env.table.ByID(id)
	env.True(ok)
	env.Same(r, byID)

	_, _, ok = env.table.Lookup("serif")
	env.False(ok)
	env.False(env.table.Contains("serif"))
}

func (env *TableTestEnviron) TestDuplicateRejected() {
	_, err := env.table.Add("sans", &stubRasterizer{})
	env.Require().NoError(err)

	dup := &stubRasterizer{}
	_, err = env.table.Add("sans", dup)
	env.True(errors.Is(err, ErrDuplicateFont), "got %v", err)
	env.Zero(dup.closed, "a rejected rasterizer stays with the caller")
}

func (env *TableTestEnviron) TestEmptyNameRejected() {
	_, err := env.table.Add("", &stubRasterizer{})
	env.ErrorIs(err, ErrEmptyName)
	_, err = env.table.Add("nil", nil)
	env.Error(err)
}

func (env *TableTestEnviron) TestFullTable() {
	for i := 1; i <= glyph.MaxFontID; i++ {
		_, err := env.table.Add(string(rune('A'+i)), &stubRasterizer{})
		env.Require().NoError(err, "font %d", i)
	}
	_, err := env.table.Add("one-too-many", &stubRasterizer{})
	env.ErrorIs(err, ErrTableFull)
}

func (env *TableTestEnviron) TestRemoveDoesNotReuseIDs() {
	r := &stubRasterizer{}
	first, _ := env.table.Add("first", r)
	removed, err := env.table.Remove("first")
	env.Require().NoError(err)
	env.Equal(first, removed)
	env.Equal(1, r.closed)

	second, _ := env.table.Add("first", &stubRasterizer{})
	env.NotEqual(first, second)

	_, err = env.table.Remove("nobody")
	env.Error(err)
}

func (env *TableTestEnviron) TestCloseClosesEverything() {
	rs := []*stubRasterizer{{}, {err: errors.New("boom")}}
	env.table.Add("ok", rs[0])
	env.table.Add("bad", rs[1])

	err := env.table.Close()
	env.Error(err)
	for _, r := range rs {
		env.Equal(1, r.closed)
	}
	env.Zero(env.table.Len())
}

func (env *TableTestEnviron) TestRealFont() {
	f, err := Parse(goregular.TTF)
	env.Require().NoError(err)
	id, err := env.table.Add("Go Regular", f)
	env.Require().NoError(err)

	r, ok := env.table.ByID(id)
	env.Require().True(ok)
	env.True(r.HasGlyph('g'))
}
