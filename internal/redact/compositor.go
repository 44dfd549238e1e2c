package redact

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/redact-tools/redact-mcp/internal/geometry"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// ErrCompose wraps export-time raster or encoding failures. Session state
// is unaffected by a failed export; the caller may retry.
var ErrCompose = errors.New("composition failed")

// pixelBlock is the mosaic cell size for ModePixelate, in output pixels.
const pixelBlock = 16

// Composite renders the exported raster: a fresh image at the source's
// native dimensions with the source drawn at origin unscaled, then every
// selected detection's region obscured in stored list order.
//
// With ModeFill, fills use standard alpha-over compositing, so
// overlapping regions at opacity < 1 accumulate: the overlap visibly
// differs from either region alone. That is a consequence of partial
// opacity and is preserved, not corrected.
//
// Unselected detections contribute nothing; their pixels remain
// bit-identical to the source. Degenerate and out-of-range boxes are
// legal no-op draws. The result is a pure function of (source pixels,
// detections, style); no network call is involved.
func Composite(src image.Image, dets []session.Detection, st Style) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrCompose)
	}

	out := imaging.Clone(src)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()

	for _, d := range dets {
		if !d.Selected {
			continue
		}
		rect := geometry.MapToPixels(d.Box, w, h)
		obscureRegion(out, rect, st)
	}

	return out, nil
}

// obscureRegion applies the style's redaction to one mapped rectangle.
// Shared by the compositor and the overlay preview so both always show
// the same treatment.
func obscureRegion(img *image.NRGBA, rect image.Rectangle, st Style) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	switch st.Mode {
	case ModeBlur:
		blurRegion(img, rect)
	case ModePixelate:
		pixelateRegion(img, rect)
	default:
		fillRegion(img, rect, st.Fill, st.Opacity)
	}
}

// fillRegion composites the fill color over the rectangle. At opacity 1
// the region becomes exactly the fill color; below 1 each channel blends
// out = fill*a + under*(1-a), reading the already-composited buffer so
// later fills stack on earlier ones.
func fillRegion(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA, opacity float64) {
	if opacity >= 1.0 {
		draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Src)
		return
	}
	if opacity <= 0 {
		return
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Pix[i+0] = blendChannel(fill.R, img.Pix[i+0], opacity)
			img.Pix[i+1] = blendChannel(fill.G, img.Pix[i+1], opacity)
			img.Pix[i+2] = blendChannel(fill.B, img.Pix[i+2], opacity)
			img.Pix[i+3] = blendChannel(255, img.Pix[i+3], opacity)
			i += 4
		}
	}
}

func blendChannel(top, under uint8, a float64) uint8 {
	return uint8(float64(top)*a + float64(under)*(1-a) + 0.5)
}

// blurRegion rewrites the rectangle with a gaussian blur of its own
// content. The radius scales with the region so small regions stay
// recognizably blurred and large ones are fully unreadable.
func blurRegion(img *image.NRGBA, rect image.Rectangle) {
	region := imaging.Crop(img, rect)
	radius := float64(min(rect.Dx(), rect.Dy())) / 8.0
	if radius < 4 {
		radius = 4
	}
	blurred := blur.Gaussian(region, radius)
	draw.Draw(img, rect, blurred, blurred.Bounds().Min, draw.Src)
}

// pixelateRegion rewrites the rectangle as a coarse mosaic: downscale
// with nearest-neighbor, then scale back up.
func pixelateRegion(img *image.NRGBA, rect image.Rectangle) {
	region := imaging.Crop(img, rect)
	cols := max(1, rect.Dx()/pixelBlock)
	rows := max(1, rect.Dy()/pixelBlock)
	small := imaging.Resize(region, cols, rows, imaging.NearestNeighbor)
	big := imaging.Resize(small, rect.Dx(), rect.Dy(), imaging.NearestNeighbor)
	draw.Draw(img, rect, big, big.Bounds().Min, draw.Src)
}

// Artifact is a serialized export: a PNG payload plus its derived
// download filename. PNG is used regardless of the source format so the
// unredacted pixels reproduce losslessly.
type Artifact struct {
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     []byte `json:"-"`
}

// Export composites and serializes the final artifact for the given
// source, detections, and style snapshot.
func Export(src image.Image, dets []session.Detection, st Style, fileLabel string) (*Artifact, error) {
	out, err := Composite(src, dets, st)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}

	return &Artifact{
		Filename: DerivedFilename(fileLabel),
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
		Data:     buf.Bytes(),
	}, nil
}

// DerivedFilename maps an uploaded file label to its export name:
// "photo.jpg" becomes "redacted-photo.png". The extension is normalized
// to .png because the artifact is always PNG-encoded.
func DerivedFilename(fileLabel string) string {
	stem := strings.TrimSuffix(fileLabel, filepath.Ext(fileLabel))
	if stem == "" {
		stem = "image"
	}
	return "redacted-" + stem + ".png"
}

// WriteArtifact stores the artifact under its derived filename in dir
// and returns the full path.
func WriteArtifact(a *Artifact, dir string) (string, error) {
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}
	return path, nil
}
