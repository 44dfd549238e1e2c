package redact

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/redact-tools/redact-mcp/internal/geometry"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// OverlayOptions controls the interactive preview rendering.
type OverlayOptions struct {
	// MaxWidth, when > 0, downscales the preview frame to at most this
	// many pixels wide (aspect preserved). The export raster is never
	// scaled; this only affects the preview.
	MaxWidth int

	// ShowLabels draws each detection's label text next to its box.
	ShowLabels bool
}

// RegionPlacement positions one detection over a displayed image of any
// on-screen size, as percent-of-container values, alongside its identity
// and selection state for interactive toggling.
type RegionPlacement struct {
	ID         string               `json:"id"`
	Label      string               `json:"label"`
	Confidence float64              `json:"confidence"`
	Selected   bool                 `json:"selected"`
	Rect       geometry.PercentRect `json:"rect"`
}

// OverlayResult is a rendered selection preview. It is display-only:
// the session's source pixels are never mutated, and the preview is
// re-derived from (detections, style, frame) on every call.
type OverlayResult struct {
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	ImageBase64 string            `json:"image_base64"`
	MimeType    string            `json:"mime_type"`
	Regions     []RegionPlacement `json:"regions"`
}

var outlineUnselected = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Overlay renders the interactive preview: every detection gets an
// outline (style color when selected, gray when unselected), and selected
// regions additionally show the current redaction treatment so the final
// look can be judged before export.
func Overlay(src image.Image, dets []session.Detection, st Style, opts OverlayOptions) (*OverlayResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrCompose)
	}

	frame := imaging.Clone(src)
	if opts.MaxWidth > 0 && frame.Bounds().Dx() > opts.MaxWidth {
		frame = imaging.Resize(frame, opts.MaxWidth, 0, imaging.Lanczos)
	}
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()

	regions := make([]RegionPlacement, len(dets))
	selectedOutline := color.NRGBA{R: st.Fill.R, G: st.Fill.G, B: st.Fill.B, A: 255}

	for i, d := range dets {
		rect := geometry.MapToPixels(d.Box, w, h)

		if d.Selected {
			obscureRegion(frame, rect, st)
			drawOutline(frame, rect, selectedOutline)
		} else {
			drawOutline(frame, rect, outlineUnselected)
		}

		if opts.ShowLabels && d.Label != "" {
			drawLabel(frame, rect, d.Label)
		}

		regions[i] = RegionPlacement{
			ID:         d.ID,
			Label:      d.Label,
			Confidence: d.Confidence,
			Selected:   d.Selected,
			Rect:       geometry.MapToPercent(d.Box),
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}

	return &OverlayResult{
		Width:       w,
		Height:      h,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Regions:     regions,
	}, nil
}

// drawOutline paints a 2px rectangle border, clipped to the frame.
// Degenerate rectangles draw nothing.
func drawOutline(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return
	}

	for t := 0; t < 2; t++ {
		top := rect.Min.Y + t
		bottom := rect.Max.Y - 1 - t
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if top < rect.Max.Y {
				img.SetNRGBA(x, top, c)
			}
			if bottom >= rect.Min.Y {
				img.SetNRGBA(x, bottom, c)
			}
		}
		left := rect.Min.X + t
		right := rect.Max.X - 1 - t
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			if left < rect.Max.X {
				img.SetNRGBA(left, y, c)
			}
			if right >= rect.Min.X {
				img.SetNRGBA(right, y, c)
			}
		}
	}
}

// drawLabel renders the detection label just above the box, or inside it
// when the box touches the top edge.
func drawLabel(img *image.NRGBA, rect image.Rectangle, text string) {
	face := basicfont.Face7x13
	y := rect.Min.Y - 3
	if y-face.Ascent < 0 {
		y = rect.Min.Y + face.Ascent + 3
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(rect.Min.X+2, y),
	}

	// Dark backing strip so the text stays readable on light images.
	width := d.MeasureString(text).Ceil()
	back := image.Rect(rect.Min.X, y-face.Ascent, rect.Min.X+width+4, y+face.Descent)
	fillRegion(img, back.Intersect(img.Bounds()), color.NRGBA{A: 255}, 0.6)

	d.DrawString(text)
}
