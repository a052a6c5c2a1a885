// Command termsdf renders animated signed distance field scenes in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/soypat/termsdf/capture"
	"github.com/soypat/termsdf/config"
	"github.com/soypat/termsdf/internal/demo"
	"github.com/soypat/termsdf/internal/term"
	"github.com/soypat/termsdf/metrics"
	"github.com/soypat/termsdf/render"
	"goki.dev/grog"
)

type flags struct {
	config    string
	scene     string
	mode      string
	width     int
	height    int
	scale     int
	fps       float64
	frames    int
	once      bool
	record    string
	replay    string
	speed     float64
	stepsPlot string
	vv, v, q  bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "TOML or YAML configuration file")
	flag.StringVar(&f.scene, "scene", "", "demo scene to render, overrides the configured scene")
	flag.StringVar(&f.mode, "mode", "", "output mode: ascii, blocks, truecolor or halfblock")
	flag.IntVar(&f.width, "w", 0, "width in cells, 0 uses the terminal width")
	flag.IntVar(&f.height, "h", 0, "height in cells, 0 uses the terminal height")
	flag.IntVar(&f.scale, "scale", 0, "render at 1/scale resolution and upscale")
	flag.Float64Var(&f.fps, "fps", 0, "target frame rate")
	flag.IntVar(&f.frames, "frames", 0, "stop after this many frames, 0 runs until interrupted")
	flag.BoolVar(&f.once, "once", false, "render a single frame to stdout and exit")
	flag.StringVar(&f.record, "record", "", "record frames to a zstd file")
	flag.StringVar(&f.replay, "replay", "", "play back a recording and exit")
	flag.Float64Var(&f.speed, "speed", 1, "replay speed factor")
	flag.StringVar(&f.stepsPlot, "stepsplot", "", "write a PNG histogram of march steps of the last frame")
	flag.BoolVar(&f.vv, "vv", false, "debug logging")
	flag.BoolVar(&f.v, "v", false, "info logging")
	flag.BoolVar(&f.q, "q", false, "only log errors")
	flag.Parse()

	log := newLogger(os.Stderr, f)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := run(ctx, f, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("termsdf", slog.String("err", err.Error()))
		stop()
		os.Exit(1)
	}
}

// newLogger returns a text logger writing to w at the level selected by the verbosity flags.
func newLogger(w io.Writer, f flags) *slog.Logger {
	grog.UserLevel = grog.LevelFromFlags(f.vv, f.v, f.q)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: grog.UserLevel}))
}

func run(ctx context.Context, f flags, log *slog.Logger) error {
	out := termenv.NewOutput(os.Stdout)
	if f.replay != "" {
		return replay(ctx, out, f.replay, f.speed)
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	src, err := source(&cfg, f.scene)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = log
	r, err := render.New(opts)
	if err != nil {
		return err
	}
	r.Encoder().Profile = out.ColorProfile()
	log.Info("renderer ready", slog.String("mode", opts.Mode.String()), slog.Int("maxrays", opts.MaxRays))

	var in render.Input
	if f.once {
		cols, rows := size(cfg.Render)
		if err := r.Frame(src, 0, &in, cols, opts.Mode.PixelHeight(rows)); err != nil {
			return err
		}
		w := bufio.NewWriter(os.Stdout)
		w.Write(r.AppendANSI(nil))
		w.WriteString("\n")
		if err := w.Flush(); err != nil {
			return err
		}
		return writeStepsPlot(f.stepsPlot, r)
	}

	var rec *capture.Recorder
	if f.record != "" {
		fp, err := os.Create(f.record)
		if err != nil {
			return err
		}
		defer fp.Close()
		rec, err = capture.NewRecorder(fp, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Error("closing recording", slog.String("err", err.Error()))
			}
			log.Info("recorded", slog.Uint64("frames", rec.Frames()), slog.String("file", f.record))
		}()
	}

	out.AltScreen()
	out.HideCursor()
	defer func() {
		out.ShowCursor()
		out.ExitAltScreen()
	}()
	err = loop(ctx, cfg.Render, r, src, rec, f.frames, log)
	if err != nil {
		return err
	}
	return writeStepsPlot(f.stepsPlot, r)
}

func loop(ctx context.Context, rc config.Render, r *render.Renderer, src render.Source, rec *capture.Recorder, maxFrames int, log *slog.Logger) error {
	mode := r.Options().Mode
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rc.FPS))
	defer ticker.Stop()
	w := bufio.NewWriterSize(os.Stdout, 1<<16)
	var (
		in     render.Input
		buf    []byte
		frames int
		start  = time.Now()
		last   [2]int
	)
	for maxFrames <= 0 || frames < maxFrames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		cols, rows := size(rc)
		if [2]int{cols, rows} != last {
			// Stale cells from a larger frame would otherwise remain.
			fmt.Fprintf(w, termenv.CSI+termenv.EraseDisplaySeq, 2)
			last = [2]int{cols, rows}
		}
		t := float32(time.Since(start).Seconds())
		err := r.Frame(src, t, &in, cols, mode.PixelHeight(rows))
		if errors.Is(err, render.ErrCapacity) {
			log.Warn("frame rejected", slog.String("err", err.Error()))
			continue
		} else if err != nil {
			return err
		}
		buf = r.AppendANSI(buf[:0])
		if err := drawFrame(w, buf); err != nil {
			return err
		}
		if rec != nil {
			if err := rec.Record(buf, cols, rows); err != nil {
				return err
			}
		}
		frames++
		log.Debug("drawn", slog.Int("frame", frames), slog.String("stats", r.Stats().String()))
	}
	return nil
}

func loadConfig(f flags) (config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		cfg, err = config.Load(f.config)
		if err != nil {
			return cfg, err
		}
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			cfg.Render.Mode = f.mode
		case "w":
			cfg.Render.Width = f.width
		case "h":
			cfg.Render.Height = f.height
		case "fps":
			cfg.Render.FPS = f.fps
		case "scale":
			cfg.Render.Scale = f.scale
		}
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func source(cfg *config.Config, name string) (render.Source, error) {
	if name == "" && len(cfg.Objects) > 0 {
		return cfg.Source()
	}
	if name == "" {
		name = demo.Default
	}
	return demo.Registry().New(name)
}

// size returns the frame size in cells, preferring configured dimensions.
func size(rc config.Render) (cols, rows int) {
	cols, rows = rc.Width, rc.Height
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	tc, tr, err := term.Size(os.Stdout)
	if err != nil {
		tc, tr = 80, 24
	}
	if cols <= 0 {
		cols = tc
	}
	if rows <= 0 {
		rows = tr
	}
	return cols, rows
}

func writeStepsPlot(path string, r *render.Renderer) error {
	if path == "" {
		return nil
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := metrics.WriteStepHistogram(fp, r.Result(), 0); err != nil {
		return err
	}
	return fp.Close()
}

func replay(ctx context.Context, out *termenv.Output, path string, speed float64) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	p, err := capture.NewPlayer(bufio.NewReader(fp))
	if err != nil {
		return err
	}
	defer p.Close()
	out.AltScreen()
	out.HideCursor()
	defer func() {
		out.ShowCursor()
		out.ExitAltScreen()
	}()
	w := bufio.NewWriterSize(os.Stdout, 1<<16)
	return p.Play(ctx, speed, func(fr capture.Frame) error {
		return drawFrame(w, fr.Data)
	})
}

func drawFrame(w *bufio.Writer, data []byte) error {
	fmt.Fprintf(w, termenv.CSI+termenv.CursorPositionSeq, 1, 1)
	w.Write(data)
	return w.Flush()
}
