package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/zoomout"
	"github.com/menta2k/zoomout/internal/config"
	"github.com/menta2k/zoomout/internal/utils"
	"github.com/menta2k/zoomout/pkg/caption"
	"github.com/menta2k/zoomout/pkg/expander"
	"github.com/menta2k/zoomout/pkg/inpaint"
	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/ollama"
	"github.com/menta2k/zoomout/pkg/processing"
	"github.com/menta2k/zoomout/pkg/resize"
)

func main() {
	var in, outDir, cfgPath string
	var direction, resizeMode, convention, palette, resampler string
	var scale float64
	var width, height, reserve int
	var ext string
	var quality int
	var lossless bool
	var debug, verbose bool
	var captionOn bool
	var url, model, prompt string

	flag.StringVar(&in, "in", "", "input image path, URL or directory (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&cfgPath, "config", "", "config file (default ~/.config/zoomout/config.json if present)")

	flag.StringVar(&direction, "direction", "", "expansion direction: center|left|right|up|down")
	flag.Float64Var(&scale, "scale", 0, "shrink scale (>=1) for center, crop fraction (0..1) otherwise")
	flag.IntVar(&reserve, "reserve", -1, "mask reserve margin in px")
	flag.StringVar(&convention, "convention", "", "mask convention: original|legacy")
	flag.StringVar(&resampler, "resampler", "", "resampling filter: lanczos|catmullrom|linear|box|nearest|nfnt-*")

	flag.IntVar(&width, "width", -1, "working width the source is resized to, 0=keep")
	flag.IntVar(&height, "height", -1, "working height the source is resized to, 0=keep")
	flag.StringVar(&resizeMode, "resize-mode", "", "resize mode: just-resize|crop-and-resize|resize-and-fill")

	flag.StringVar(&palette, "palette", "", "mask palette: binary|legacy-center|legacy-directional")
	flag.StringVar(&ext, "ext", "", "output format for canvas and mask: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode")

	flag.BoolVar(&debug, "debug", false, "create debug overlay images")
	flag.BoolVar(&verbose, "v", false, "verbose logging")

	flag.BoolVar(&captionOn, "caption", false, "suggest a prompt with an Ollama vision model")
	flag.StringVar(&url, "url", "", "Ollama server URL")
	flag.StringVar(&model, "model", "", "vision model name")
	flag.StringVar(&prompt, "prompt", "", "inpaint prompt, skips captioning")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL|dir [-direction center|left|right|up|down] [-scale 2] [-out outdir] [-width 512 -height 512] [-caption]", filepath.Base(os.Args[0]))
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// Flags override the config file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if direction != "" {
		cfg.Expander.Direction = direction
	}
	if scale != 0 {
		cfg.Expander.Scale = scale
	}
	if reserve >= 0 {
		cfg.Expander.Reserve = reserve
	}
	if convention != "" {
		cfg.Expander.MaskConvention = convention
	}
	if resampler != "" {
		cfg.Expander.Resampler = resampler
	}
	if width >= 0 {
		cfg.Resize.Width = width
	}
	if height >= 0 {
		cfg.Resize.Height = height
	}
	if resizeMode != "" {
		cfg.Resize.Mode = resizeMode
	}
	if palette != "" {
		cfg.Inpaint.MaskPalette = palette
	}
	if outDir != "" {
		cfg.Output.OutputDir = outDir
	}
	if ext != "" {
		cfg.Output.DefaultFormat = ext
	}
	if quality != 0 {
		cfg.Output.Quality = quality
	}
	if set["lossless"] {
		cfg.Output.Lossless = lossless
	}
	if set["caption"] {
		cfg.Vision.Enabled = captionOn
	}
	if url != "" {
		cfg.Vision.URL = url
	}
	if model != "" {
		cfg.Vision.Model = model
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if verbose {
		zoomout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	z, err := newZoomOut(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Validate has already checked these
	dir, _ := expander.ParseDirection(cfg.Expander.Direction)
	mode, _ := resize.ParseMode(cfg.Resize.Mode)
	params := zoomout.Params{
		Direction:  dir,
		Factor:     cfg.Expander.Scale,
		Width:      cfg.Resize.Width,
		Height:     cfg.Resize.Height,
		ResizeMode: mode,
		Prompt:     prompt,
	}

	if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
		log.Fatal(err)
	}

	inputs := []string{in}
	if utils.DirExists(in) {
		inputs, err = utils.ListImageFiles(in)
		if err != nil {
			log.Fatal(err)
		}
		if len(inputs) == 0 {
			log.Fatalf("no images found in %s", in)
		}
	}

	ctx := context.Background()
	failed := 0
	for _, src := range inputs {
		if err := run(ctx, z, cfg, params, src, debug); err != nil {
			log.Printf("%s failed: %v", src, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	if def := config.GetConfigPath(); fileExists(def) {
		return config.LoadFromFile(def)
	}
	return config.Default(), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func newZoomOut(cfg *config.Config) (*zoomout.ZoomOut, error) {
	expOpts, err := cfg.ExpanderOptions()
	if err != nil {
		return nil, err
	}
	pal, _ := mask.PaletteByName(cfg.Inpaint.MaskPalette)

	opts := zoomout.Options{
		Expander: expOpts,
		Palette:  pal,
	}
	if cfg.Inpaint.Control {
		opts.Control = inpaint.DefaultProvider{Model: cfg.Inpaint.ControlModel, Module: cfg.Inpaint.ControlModule}
	}
	if cfg.Vision.Enabled {
		vc, err := ollama.NewClient(cfg.Vision.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		opts.Captioner = caption.New(vc, cfg.Vision.Model)
	}
	return zoomout.NewWithOptions(opts), nil
}

func run(ctx context.Context, z *zoomout.ZoomOut, cfg *config.Config, params zoomout.Params, src string, debug bool) error {
	img, err := z.LoadImage(src)
	if err != nil {
		return err
	}

	req, res, err := z.PrepareWithResult(ctx, img, params)
	if err != nil {
		return err
	}

	out := cfg.Output
	format := strings.ToLower(out.DefaultFormat)
	name := src
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		name = "remote"
	}
	processor := processing.NewProcessor()

	canvasPath := utils.GenerateOutputFilename(name, out.OutputDir, out.Prefix, out.Suffix, "", format)
	if err := processor.SaveImage(req.Image, canvasPath, format, out.Quality, out.Lossless); err != nil {
		return fmt.Errorf("save %s failed: %w", canvasPath, err)
	}
	log.Printf("wrote %s", canvasPath)

	// Masks must stay lossless so the known/unknown split survives
	maskFormat := format
	if maskFormat == "jpg" || maskFormat == "jpeg" {
		maskFormat = "png"
	}
	maskPath := utils.GenerateOutputFilename(name, out.OutputDir, out.Prefix, out.Suffix, "mask", maskFormat)
	if err := processor.SaveImage(req.Mask, maskPath, maskFormat, 100, true); err != nil {
		return fmt.Errorf("save %s failed: %w", maskPath, err)
	}
	log.Printf("wrote %s", maskPath)

	if debug {
		dbg := processor.CreateDebugOverlay(res.Canvas, res.Content, res.Unknown)
		dbgPath := utils.GenerateOutputFilename(name, out.OutputDir, out.Prefix, out.Suffix, "debug", "png")
		if err := processor.SaveImage(dbg, dbgPath, "png", 92, false); err != nil {
			log.Printf("debug save %s failed: %v", dbgPath, err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}

	if req.Prompt != "" {
		log.Printf("prompt: %s", req.Prompt)
	}

	// Save the inpaint request next to the images
	js, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	reqPath := utils.GenerateOutputFilename(name, out.OutputDir, out.Prefix, out.Suffix, "request", "json")
	if err := os.WriteFile(reqPath, js, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s", reqPath)
	return nil
}
