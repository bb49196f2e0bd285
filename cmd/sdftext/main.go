// Command sdftext renders a TOML scene of text with SDF glyphs on the
// software device and writes the result, and optionally the glyph atlas,
// as PNG files.
//
// Usage:
//
//	sdftext [-config scene.toml] [-text "Hello"] [-size 48] [-o text.png] [-atlas atlas.png]
//	sdftext -print-config > scene.toml
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/sdftext"
	"github.com/gogpu/sdftext/gpu"
	"github.com/gogpu/sdftext/internal/config"
)

func main() {
	var (
		configPath  = flag.String("config", "", "scene file (TOML); the built-in scene if empty")
		text        = flag.String("text", "", "replace the text of the first line")
		size        = flag.Int("size", 0, "replace the pixel size of the first line")
		output      = flag.String("o", "", "output image")
		atlasOut    = flag.String("atlas", "", "also write the glyph atlas to this file")
		verbose     = flag.Bool("v", false, "log debug output to stderr")
		printConfig = flag.Bool("print-config", false, "print the effective scene and exit")
	)
	flag.Parse()

	if *verbose {
		sdftext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fail(err)
		}
	}
	if len(cfg.Texts) > 0 {
		if *text != "" {
			cfg.Texts[0].Text = *text
		}
		if *size != 0 {
			cfg.Texts[0].Size = *size
		}
	}
	if *output != "" {
		cfg.Output.Image = *output
	}
	if *atlasOut != "" {
		cfg.Output.AtlasImage = *atlasOut
	}

	if *printConfig {
		if err := cfg.Save(os.Stdout); err != nil {
			fail(err)
		}
		return
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}
	if err := run(cfg); err != nil {
		fail(err)
	}
}

func run(cfg *config.Config) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	r, err := sdftext.New(gpu.NewSoftwareDevice(), opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range cfg.Fonts {
		var ok bool
		if f.Path == "" {
			ok = r.AddFontData(f.Name, goregular.TTF)
		} else {
			ok = r.AddFont(f.Name, f.Path)
		}
		if !ok {
			return fmt.Errorf("cannot load font %q from %q", f.Name, f.Path)
		}
		pterm.Info.Printf("font %q loaded\n", f.Name)
	}

	target := gpu.NewImageTarget(cfg.Output.Width, cfg.Output.Height)
	bg := cfg.Output.Background
	target.Fill(color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})

	for i := range cfg.Texts {
		t := &cfg.Texts[i]
		r.RenderText(t.Text, t.Font, t.Size, t.Baseline(), t.Style())
	}
	if !r.Present(target) {
		return fmt.Errorf("present failed, run with -v for details")
	}

	if err := writePNG(cfg.Output.Image, func(f *os.File) error {
		return png.Encode(f, target.RGBA)
	}); err != nil {
		return err
	}
	pterm.Success.Printf("text written to %s\n", cfg.Output.Image)

	if cfg.Output.AtlasImage != "" {
		if err := writePNG(cfg.Output.AtlasImage, func(f *os.File) error {
			return r.Atlas().WritePNG(f)
		}); err != nil {
			return err
		}
		pterm.Success.Printf("atlas written to %s\n", cfg.Output.AtlasImage)
	}

	printStats(r.Stats())
	return nil
}

func writePNG(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func printStats(s sdftext.Stats) {
	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Counter", "Value"},
		{"fonts", fmt.Sprint(s.Fonts)},
		{"glyphs cached", fmt.Sprint(s.Glyphs)},
		{"glyph bytes", fmt.Sprint(s.GlyphBytes)},
		{"rasterized", fmt.Sprint(s.Rasterized)},
		{"populations", fmt.Sprint(s.Populations)},
		{"dropped (atlas full)", fmt.Sprint(s.Dropped)},
		{"uploads", fmt.Sprintf("%d (%d bytes)", s.Uploads, s.UploadedBytes)},
		{"cache hits / misses", fmt.Sprintf("%d / %d", s.CacheHits, s.CacheMisses)},
		{"instances", fmt.Sprintf("%d (%d dropped)", s.Instances, s.InstancesDropped)},
		{"atlas used", fmt.Sprintf("%.1f%%", s.AtlasUsed*100)},
	}).Render()
}

func fail(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
