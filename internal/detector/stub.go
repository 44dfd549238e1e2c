package detector

import (
	"context"

	"github.com/redact-tools/redact-mcp/internal/geometry"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// Stub is an offline RegionFinder returning canned regions. It keeps the
// pipeline usable in development and tests without a detection service.
type Stub struct {
	// Regions overrides the canned response when non-nil.
	Regions []session.Candidate
}

func (s *Stub) FindRegions(ctx context.Context, img []byte, mimeType string) ([]session.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := s.Regions
	if src == nil {
		src = []session.Candidate{
			{Label: "Face", Confidence: 0.93, Box: geometry.Box{YMin: 80, XMin: 120, YMax: 340, XMax: 380}},
			{Label: "Email", Confidence: 0.78, Box: geometry.Box{YMin: 620, XMin: 100, YMax: 680, XMax: 720}},
			{Label: "Signature", Confidence: 0.61, Box: geometry.Box{YMin: 840, XMin: 560, YMax: 940, XMax: 930}},
		}
	}

	out := make([]session.Candidate, len(src))
	copy(out, src)
	return out, nil
}
