// Package config loads the TOML scene description used by the sdftext
// command.
//
// A scene file looks like this:
//
//	[atlas]
//	width = 1024
//	height = 1024
//	sort = "height"
//
//	[output]
//	width = 640
//	height = 160
//	image = "text.png"
//
//	[[font]]
//	name = "go"
//
//	[[text]]
//	font = "go"
//	size = 48
//	x = 16
//	y = 96
//	text = "Hello"
//
// A font without a path uses the built-in Go Regular face.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sdftext"
	"github.com/gogpu/sdftext/atlas"
	"github.com/gogpu/sdftext/glyph"
	"github.com/gogpu/sdftext/pack"
	"github.com/gogpu/sdftext/sdffont"
)

// Config is a complete scene.
type Config struct {
	Atlas  Atlas  `toml:"atlas"`
	SDF    SDF    `toml:"sdf"`
	Output Output `toml:"output"`
	Fonts  []Font `toml:"font"`
	Texts  []Text `toml:"text"`
}

// Atlas configures the glyph atlas and its population.
type Atlas struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	Sort         string `toml:"sort"`
	Upload       string `toml:"upload"`
	RangeStart   int    `toml:"range_start"`
	RangeEnd     int    `toml:"range_end"`
	MaxInstances int    `toml:"max_instances"`
}

// SDF configures distance field generation.
type SDF struct {
	Padding   int     `toml:"padding"`
	OnEdge    int     `toml:"on_edge"`
	DistScale float32 `toml:"dist_scale"`
}

// Output names the files the command writes.
type Output struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Image      string `toml:"image"`
	AtlasImage string `toml:"atlas_image"`
	// Background is an RGBA color with 8-bit channels.
	Background [4]uint8 `toml:"background"`
}

// Font registers a font file under a name.
type Font struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Text is one RenderText call.
type Text struct {
	Font  string     `toml:"font"`
	Size  int        `toml:"size"`
	X     float32    `toml:"x"`
	Y     float32    `toml:"y"`
	Text  string     `toml:"text"`
	Scale float32    `toml:"scale"`
	Color [4]float32 `toml:"color"`
	// Shadow defaults to true when absent.
	Shadow       *bool      `toml:"shadow"`
	ShadowOffset [2]float32 `toml:"shadow_offset"`
}

// Default returns a scene that renders one line with the built-in font.
func Default() *Config {
	sdf := sdffont.DefaultSDFParams()
	return &Config{
		Atlas: Atlas{
			Width:        sdftext.DefaultAtlasSize,
			Height:       sdftext.DefaultAtlasSize,
			Sort:         pack.SortHeight.String(),
			Upload:       atlas.SyncDirty.String(),
			RangeStart:   sdftext.DefaultRangeStart,
			RangeEnd:     sdftext.DefaultRangeEnd,
			MaxInstances: sdftext.DefaultMaxInstances,
		},
		SDF: SDF{
			Padding:   sdf.Padding,
			OnEdge:    int(sdf.OnEdgeValue),
			DistScale: sdf.PixelDistScale,
		},
		Output: Output{
			Width:      640,
			Height:     160,
			Image:      "text.png",
			Background: [4]uint8{32, 32, 48, 255},
		},
		Fonts: []Font{{Name: "go"}},
		Texts: []Text{{
			Font:  "go",
			Size:  48,
			X:     16,
			Y:     64,
			Text:  "Hello, SDF text!",
			Scale: 1,
			Color: [4]float32{1, 1, 1, 1},
		}},
	}
}

// Load reads a scene from path. Settings missing from the file keep their
// defaults; fonts and texts come only from the file, and a text without a
// color is white. Unknown keys are an error.
func Load(path string) (*Config, error) {
	c := Default()
	c.Fonts, c.Texts = nil, nil
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	for i := range c.Texts {
		if c.Texts[i].Scale == 0 {
			c.Texts[i].Scale = 1
		}
		if c.Texts[i].Color == ([4]float32{}) {
			c.Texts[i].Color = [4]float32{1, 1, 1, 1}
		}
	}
	return c, nil
}

// Save writes c as TOML.
func (c *Config) Save(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// Validate reports every problem found in c.
func (c *Config) Validate() error {
	var errs []error
	if _, err := pack.ParseSortCriteria(c.Atlas.Sort); err != nil {
		errs = append(errs, err)
	}
	if _, err := atlas.ParseSyncMode(c.Atlas.Upload); err != nil {
		errs = append(errs, err)
	}
	if c.SDF.OnEdge < 0 || c.SDF.OnEdge > 255 {
		errs = append(errs, fmt.Errorf("config: sdf.on_edge %d out of range [0, 255]", c.SDF.OnEdge))
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: output size %dx%d is not positive",
			c.Output.Width, c.Output.Height))
	}
	if c.Output.Image == "" {
		errs = append(errs, errors.New("config: output.image is empty"))
	}

	names := make(map[string]bool, len(c.Fonts))
	for i, f := range c.Fonts {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("config: font %d has no name", i))
		case names[f.Name]:
			errs = append(errs, fmt.Errorf("config: font %q declared twice", f.Name))
		}
		if f.Path != "" {
			if err := sdffont.CheckFileType(f.Path); err != nil {
				errs = append(errs, fmt.Errorf("config: font %q: %w", f.Name, err))
			}
		}
		names[f.Name] = true
	}
	for i, t := range c.Texts {
		if !names[t.Font] {
			errs = append(errs, fmt.Errorf("config: text %d uses undeclared font %q", i, t.Font))
		}
		if t.Size < 1 || t.Size > glyph.MaxSize {
			errs = append(errs, fmt.Errorf("config: text %d size %d out of range [1, %d]",
				i, t.Size, glyph.MaxSize))
		}
	}
	return errors.Join(errs...)
}

// Options maps the atlas and SDF settings onto renderer options. The
// renderer validates the values.
func (c *Config) Options() ([]sdftext.Option, error) {
	sort, err := pack.ParseSortCriteria(c.Atlas.Sort)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	upload, err := atlas.ParseSyncMode(c.Atlas.Upload)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []sdftext.Option{
		sdftext.WithAtlasSize(c.Atlas.Width, c.Atlas.Height),
		sdftext.WithSortCriteria(sort),
		sdftext.WithUploadMode(upload),
		sdftext.WithCodepointRange(rune(c.Atlas.RangeStart), rune(c.Atlas.RangeEnd)),
		sdftext.WithMaxInstances(c.Atlas.MaxInstances),
		sdftext.WithSDFParams(sdffont.SDFParams{
			Padding:        c.SDF.Padding,
			OnEdgeValue:    uint8(c.SDF.OnEdge),
			PixelDistScale: c.SDF.DistScale,
		}),
	}, nil
}

// Style returns the render style for t, starting from the default style.
func (t *Text) Style() sdftext.Style {
	s := sdftext.DefaultStyle()
	if t.Scale != 0 {
		s.Scale = t.Scale
	}
	s.Color = mgl32.Vec4(t.Color)
	if t.Shadow != nil {
		s.Shadow = *t.Shadow
	}
	s.ShadowOffset = mgl32.Vec2(t.ShadowOffset)
	return s
}

// Baseline returns the pen start of t.
func (t *Text) Baseline() mgl32.Vec2 {
	return mgl32.Vec2{t.X, t.Y}
}
