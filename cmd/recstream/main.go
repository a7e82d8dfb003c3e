// Package main provides the CLI entry point for recstream.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/recstream/pkg/adapters/chromebrowser"
	"github.com/user/recstream/pkg/adapters/logger"
	"github.com/user/recstream/pkg/adapters/osfilesystem"
	"github.com/user/recstream/pkg/adapters/probe"
	"github.com/user/recstream/pkg/adapters/smartencoder"
	"github.com/user/recstream/pkg/adapters/systemclock"
	"github.com/user/recstream/pkg/adapters/testpattern"
	"github.com/user/recstream/pkg/config"
	"github.com/user/recstream/pkg/coordinator"
	"github.com/user/recstream/pkg/ports"
	"github.com/user/recstream/pkg/source"
)

var version = "dev"

const (
	catOutput  = "Output"
	catSource  = "Source"
	catVideo   = "Video and Quality"
	catBrowser = "Browser"
	catLogging = "Logging"
)

func main() {
	app := &cli.App{
		Name:    "recstream",
		Usage:   l10n.T("Record paced video from live frame sources"),
		Version: version,
		Commands: []*cli.Command{
			recordCommand(),
			probeCommand(),
			encodersCommand(),
			versionCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   l10n.T("YAML configuration file"),
		EnvVars: []string{"RECSTREAM_CONFIG"},
	}
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: l10n.T("Record frames from a source into a video file"),
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: catOutput,
				Usage: l10n.T("Output file path (default: <output_dir>/<unix ms>.mp4)")},
			&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Value: 5 * time.Second, Category: catOutput,
				Usage: l10n.T("Recording length")},

			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Value: "pattern", Category: catSource,
				Usage: l10n.T("Frame source (pattern, dir, url)")},
			&cli.StringFlag{Name: "dir", Category: catSource,
				Usage: l10n.T("Directory of images for the dir source")},
			&cli.StringFlag{Name: "url", Category: catSource,
				Usage: l10n.T("Page to screencast for the url source")},
			&cli.Float64Flag{Name: "producer-fps", Value: 24, Category: catSource,
				Usage: l10n.T("Rate at which the pattern and dir sources push frames")},
			&cli.Float64Flag{Name: "jitter", Value: 0.3, Category: catSource,
				Usage: l10n.T("Random spread of the pattern source interval (0-1)")},
			&cli.IntFlag{Name: "jpeg", Category: catSource,
				Usage: l10n.T("Push pattern frames as JPEG of this quality instead of raw RGBA")},
			&cli.DurationFlag{Name: "cycle-effects", Category: catSource,
				Usage: l10n.T("Switch to the next effect at this interval while recording")},

			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: catVideo, Usage: l10n.T("Output video width")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: catVideo, Usage: l10n.T("Output video height")},
			&cli.Float64Flag{Name: "fps", Category: catVideo, Usage: l10n.T("Output frame rate")},
			&cli.StringFlag{Name: "effect", Aliases: []string{"e"}, Category: catVideo,
				Usage: l10n.T("Effect (none, grayscale, edge, blur, sepia)")},
			&cli.BoolFlag{Name: "no-hardware", Category: catVideo, Usage: l10n.T("Skip the hardware H.264 encoder")},
			&cli.StringFlag{Name: "ffmpeg-path", Category: catVideo, Usage: l10n.T("Path to ffmpeg executable")},
			&cli.StringFlag{Name: "preset", Category: catVideo, Usage: l10n.T("x264 preset")},
			&cli.IntFlag{Name: "crf", Category: catVideo, Usage: l10n.T("x264 CRF (0-51, lower is better)")},

			&cli.BoolFlag{Name: "no-headless", Category: catBrowser, Usage: l10n.T("Run browser in non-headless mode")},
			&cli.StringFlag{Name: "chrome-path", Category: catBrowser, Usage: l10n.T("Path to Chrome executable")},

			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: catLogging,
				Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: catLogging,
				Usage: l10n.T("Suppress all log output")},
		},
		Action: runRecord,
	}
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.Context, c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("effect") {
		cfg.Effect = c.String("effect")
	}
	if c.Bool("no-hardware") {
		cfg.Hardware = false
	}
	if c.IsSet("ffmpeg-path") {
		cfg.FFmpegPath = c.String("ffmpeg-path")
	}
	if c.IsSet("preset") {
		cfg.Preset = c.String("preset")
	}
	if c.IsSet("crf") {
		cfg.CRF = c.Int("crf")
	}
	if c.Bool("no-headless") {
		cfg.Headless = false
	}
	if c.IsSet("chrome-path") {
		cfg.ChromePath = c.String("chrome-path")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = "quiet"
	}
	return cfg, cfg.Validate()
}

func runRecord(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevelValue())

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := osfilesystem.New()
	src, err := buildSource(c, cfg, fs, log)
	if err != nil {
		return err
	}

	coord, err := coordinator.New(coordinator.Options{
		Candidates: smartencoder.DefaultChain(smartencoder.Options{Encoder: cfg.ToEncoderOptions()}),
		FileSystem: fs,
		Clock:      systemclock.New(),
		Logger:     log,
		Config:     cfg.ToRecordConfig(),
		Effect:     cfg.EffectKind(),
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		coord.Close(closeCtx)
	}()

	output := c.String("output")
	if output == "" {
		output = filepath.Join(cfg.OutputDir, fmt.Sprintf("%d.mp4", time.Now().UnixMilli()))
	}
	started, err := coord.Start(output).Wait(ctx)
	if err != nil {
		return err
	}
	log.Info("Recording for %s from %s source", c.Duration("duration"), src.Name())

	runCtx, cancel := context.WithTimeout(ctx, c.Duration("duration"))
	defer cancel()
	if every := c.Duration("cycle-effects"); every > 0 {
		go cycleEffects(runCtx, coord, every)
	}
	srcErr := src.Run(runCtx, source.CoordinatorSink{Coordinator: coord})
	if ctx.Err() != nil {
		log.Warn("Interrupted, shutting down...")
	}

	// Stop must complete even after an interrupt.
	seg, stopErr := coord.Stop().Wait(context.Background())
	if seg.OutputPath != "" {
		log.Info("Output saved to %s", seg.OutputPath)
		printSegment(started.Encoder, seg.Stats.Written, seg.Stats.Duplicated, seg.Stats.DroppedBacklog, seg.Duration(), seg.FileSize)
	}
	return errors.Join(srcErr, stopErr)
}

func buildSource(c *cli.Context, cfg config.Config, fs ports.FileSystem, log ports.Logger) (source.Source, error) {
	switch kind := c.String("source"); kind {
	case "pattern":
		return &source.Pattern{
			Renderer:    testpattern.New(cfg.Width, cfg.Height),
			FPS:         c.Float64("producer-fps"),
			Jitter:      c.Float64("jitter"),
			JPEGQuality: c.Int("jpeg"),
			Logger:      log.WithComponent("pattern"),
		}, nil
	case "dir":
		if c.String("dir") == "" {
			return nil, errors.New(l10n.T("--dir is required for the dir source"))
		}
		return &source.Dir{
			FS:     fs,
			Path:   c.String("dir"),
			FPS:    c.Float64("producer-fps"),
			Loop:   true,
			Logger: log.WithComponent("dir"),
		}, nil
	case "url":
		if c.String("url") == "" {
			return nil, errors.New(l10n.T("--url is required for the url source"))
		}
		return &source.Screencast{
			Browser: chromebrowser.New(),
			URL:     c.String("url"),
			Options: ports.BrowserOptions{
				Headless:     cfg.Headless,
				ChromePath:   cfg.ChromePath,
				WindowWidth:  cfg.Width,
				WindowHeight: cfg.Height,
			},
			Quality: cfg.MJPEGQuality,
			Logger:  log.WithComponent("browser"),
		}, nil
	default:
		return nil, fmt.Errorf(l10n.T("unknown source %q"), kind)
	}
}

// cycleEffects steps through every effect until ctx ends.
func cycleEffects(ctx context.Context, coord *coordinator.Coordinator, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			next := (int(coord.Effect()) + 1) % (int(ports.EffectSepia) + 1)
			coord.SetEffect(next)
		}
	}
}

func printSegment(encoder string, written, duplicated, dropped int, d time.Duration, size int64) {
	fmt.Println(l10n.F("Encoder: %s", encoder))
	fmt.Println(l10n.F("Frames: %d written, %d duplicated, %d dropped", written, duplicated, dropped))
	fmt.Println(l10n.F("Duration: %d ms, size: %d bytes", d.Milliseconds(), size))
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show container, codec and frame count of recorded files"),
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New(l10n.T("at least one file is required"))
			}
			var errs []error
			for _, path := range c.Args().Slice() {
				res, err := probe.File(path)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				fmt.Println(l10n.F("%s: %s/%s %dx%d, %d frames at %.2f fps, %d ms, %d bytes",
					res.Path, res.Container, res.Codec, res.Width, res.Height,
					res.Frames, res.FPS, res.Duration.Milliseconds(), res.Size))
			}
			return errors.Join(errs...)
		},
	}
}

func encodersCommand() *cli.Command {
	return &cli.Command{
		Name:  "encoders",
		Usage: l10n.T("List the encoder fallback chain and what is available"),
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "no-hardware", Usage: l10n.T("Skip the hardware H.264 encoder")},
			&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to ffmpeg executable")},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			chain := smartencoder.DefaultChain(smartencoder.Options{Encoder: cfg.ToEncoderOptions()})
			for i, e := range smartencoder.Describe(chain) {
				status := l10n.T("available")
				if !e.Available {
					status = l10n.T("unavailable")
				}
				fmt.Printf("%d. %-24s %-9s %s/%s  %s\n", i+1, e.Name, e.Backend, e.Codec, e.Container, status)
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(*cli.Context) error {
			fmt.Println(l10n.F("recstream version %s", version))
			return nil
		},
	}
}
