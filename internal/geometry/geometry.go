package geometry

import "image"

// GridSize is the side length of the virtual grid detection boxes are
// expressed on. Detection services return coordinates normalized to a
// 1000x1000 grid regardless of the source image's actual dimensions.
const GridSize = 1000.0

// Box is a detection bounding box on the normalized 0-1000 grid.
//
// The coordinate order (ymin, xmin, ymax, xmax) matches the wire format
// of the detection service. Upstream data is not guaranteed to satisfy
// YMin <= YMax or XMin <= XMax; use Canon before mapping.
type Box struct {
	YMin float64 `json:"ymin"`
	XMin float64 `json:"xmin"`
	YMax float64 `json:"ymax"`
	XMax float64 `json:"xmax"`
}

// Canon returns the box with every coordinate clamped into [0, GridSize]
// and inverted extents clamped to empty (min == max). A canonical box
// always maps to a rectangle fully contained in the target frame; a
// degenerate box maps to a zero-area rectangle, which is a legal no-op
// draw rather than an error.
func (b Box) Canon() Box {
	b.YMin = clamp(b.YMin, 0, GridSize)
	b.XMin = clamp(b.XMin, 0, GridSize)
	b.YMax = clamp(b.YMax, 0, GridSize)
	b.XMax = clamp(b.XMax, 0, GridSize)

	// Inverted boxes collapse to empty rather than being rejected, so
	// the compositor stays total on bad upstream data.
	if b.YMax < b.YMin {
		b.YMax = b.YMin
	}
	if b.XMax < b.XMin {
		b.XMax = b.XMin
	}
	return b
}

// Empty reports whether the canonical form of the box has zero area.
func (b Box) Empty() bool {
	c := b.Canon()
	return c.XMax == c.XMin || c.YMax == c.YMin
}

// MapToPixels projects a normalized box onto a w x h pixel frame.
//
// The mapping is:
//
//	left   = (xmin/1000) * w
//	top    = (ymin/1000) * h
//	right  = (xmax/1000) * w
//	bottom = (ymax/1000) * h
//
// Coordinates are rounded to the nearest integer. For any input box the
// result is contained in (0,0)-(w,h); out-of-range upstream values are
// clamped rather than drawn outside the frame.
func MapToPixels(b Box, w, h int) image.Rectangle {
	c := b.Canon()
	fw, fh := float64(w), float64(h)

	x0 := int(c.XMin/GridSize*fw + 0.5)
	y0 := int(c.YMin/GridSize*fh + 0.5)
	x1 := int(c.XMax/GridSize*fw + 0.5)
	y1 := int(c.YMax/GridSize*fh + 0.5)

	return image.Rect(x0, y0, x1, y1)
}

// PercentRect is a rectangle expressed as percent-of-container values,
// suitable for positioning an overlay element over a displayed image of
// any on-screen size.
type PercentRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapToPercent projects a normalized box onto a 100x100 frame. It is the
// same mapping as MapToPixels with W = H = 100, kept in floating point.
func MapToPercent(b Box) PercentRect {
	c := b.Canon()
	return PercentRect{
		Left:   c.XMin / GridSize * 100,
		Top:    c.YMin / GridSize * 100,
		Width:  (c.XMax - c.XMin) / GridSize * 100,
		Height: (c.YMax - c.YMin) / GridSize * 100,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
