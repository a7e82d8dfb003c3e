package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".webp": true,
}

// Dir pushes the encoded images of a directory in name order.
type Dir struct {
	FS   ports.FileSystem
	Path string
	FPS  float64

	// Loop restarts from the first image after the last.
	Loop bool

	Logger ports.Logger
}

func (d *Dir) Name() string { return "dir" }

func (d *Dir) Run(ctx context.Context, sink Sink) error {
	images, err := d.load()
	if err != nil {
		return err
	}
	d.Logger.Info("Loaded %d images from %s", len(images), d.Path)

	interval := pipeline.FrameInterval(d.FPS)
	for {
		for _, data := range images {
			if finished(d.Logger, sink.PushEncoded(ctx, data)) {
				return nil
			}
			if !sleep(ctx, interval) {
				return nil
			}
		}
		if !d.Loop {
			return nil
		}
	}
}

func (d *Dir) load() ([][]byte, error) {
	paths, err := d.FS.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}
	var images [][]byte
	for _, p := range paths {
		if !imageExts[strings.ToLower(filepath.Ext(p))] {
			continue
		}
		data, err := d.FS.ReadFile(p)
		if err != nil {
			d.Logger.Warn("Skipping unreadable image %s: %s", p, err.Error())
			continue
		}
		images = append(images, data)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images in %s", d.Path)
	}
	return images, nil
}
