// Package ingest turns pushed payloads into frames of the recording size.
//
// Raw payloads are RGB24 or RGBA, told apart by their length. Encoded
// payloads may be PNG, JPEG, BMP or WebP. Frames of a different size are
// resized with a bilinear filter.
package ingest

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"time"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/user/recstream/pkg/frame"
	"github.com/user/recstream/pkg/pipeline"
)

// PixelFormat identifies the layout of a raw payload.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatRGB24
	FormatRGBA
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB24:
		return "rgb24"
	case FormatRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Raw is an uncompressed pixel payload.
type Raw struct {
	Pix    []byte
	Width  int
	Height int
}

// Format infers the pixel format from the payload length.
func (r Raw) Format() PixelFormat {
	if r.Width <= 0 || r.Height <= 0 {
		return FormatUnknown
	}
	n := r.Width * r.Height
	switch len(r.Pix) {
	case n * 3:
		return FormatRGB24
	case n * 4:
		return FormatRGBA
	default:
		return FormatUnknown
	}
}

// Ingestor converts payloads into pooled frames of a fixed size.
type Ingestor struct {
	width  int
	height int
	pool   *frame.Pool

	raw     pipeline.Stage[Raw, *image.RGBA]
	encoded pipeline.Stage[[]byte, *image.RGBA]
}

// New creates an Ingestor producing width x height frames.
func New(width, height int) *Ingestor {
	in := &Ingestor{
		width:  width,
		height: height,
		pool:   frame.NewPool(width, height),
	}
	fit := pipeline.StageFunc[*image.RGBA, *image.RGBA](in.fit)
	in.raw = pipeline.Chain[Raw, *image.RGBA, *image.RGBA](pipeline.StageFunc[Raw, *image.RGBA](DecodeRaw), fit)
	in.encoded = pipeline.Chain[[]byte, *image.RGBA, *image.RGBA](pipeline.StageFunc[[]byte, *image.RGBA](DecodeEncoded), fit)
	return in
}

// Size returns the output frame size.
func (in *Ingestor) Size() (int, int) {
	return in.width, in.height
}

// Pool returns the buffer pool backing produced frames.
func (in *Ingestor) Pool() *frame.Pool {
	return in.pool
}

// Raw converts a raw payload into a frame stamped with ts.
func (in *Ingestor) Raw(ctx context.Context, r Raw, ts time.Time) (*frame.Frame, error) {
	img, err := in.raw.Execute(ctx, r)
	if err != nil {
		return nil, err
	}
	return in.pool.Adopt(img, ts), nil
}

// Encoded decodes an encoded image into a frame stamped with ts.
func (in *Ingestor) Encoded(ctx context.Context, data []byte, ts time.Time) (*frame.Frame, error) {
	img, err := in.encoded.Execute(ctx, data)
	if err != nil {
		return nil, err
	}
	return in.pool.Adopt(img, ts), nil
}

// fit returns img unchanged when it already has the output size, otherwise a
// resized copy drawn from the pool.
func (in *Ingestor) fit(_ context.Context, img *image.RGBA) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() == in.width && b.Dy() == in.height && b.Min == (image.Point{}) {
		return img, nil
	}
	dst := in.pool.Get(time.Time{}).Image
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, nil
}

// DecodeRaw converts an RGB24 or RGBA payload into a new RGBA image.
func DecodeRaw(_ context.Context, r Raw) (*image.RGBA, error) {
	format := r.Format()
	if format == FormatUnknown {
		return nil, pipeline.Errorf(pipeline.KindFrameDecode,
			"payload of %d bytes is neither RGB24 nor RGBA for %dx%d", len(r.Pix), r.Width, r.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	if format == FormatRGBA {
		copy(img.Pix, r.Pix)
		return img, nil
	}
	for s, d := 0, 0; s < len(r.Pix); s, d = s+3, d+4 {
		img.Pix[d] = r.Pix[s]
		img.Pix[d+1] = r.Pix[s+1]
		img.Pix[d+2] = r.Pix[s+2]
		img.Pix[d+3] = 0xff
	}
	return img, nil
}

// DecodeEncoded decodes a PNG, JPEG, BMP or WebP image into RGBA.
func DecodeEncoded(_ context.Context, data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, pipeline.Errorf(pipeline.KindFrameDecode, "empty image payload")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeline.Wrap(pipeline.KindFrameDecode, err, "decode image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, pipeline.Errorf(pipeline.KindFrameDecode, "invalid %s dimensions %dx%d", format, b.Dx(), b.Dy())
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
