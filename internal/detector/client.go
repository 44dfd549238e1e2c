package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/redact-tools/redact-mcp/internal/geometry"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// ErrService wraps every detection-call failure: network errors, non-2xx
// responses, and malformed payloads. A failed call never yields a partial
// detection list.
var ErrService = errors.New("detection service error")

// DefaultTargets is the PII-like region list the service is asked to find
// when the caller does not narrow it.
var DefaultTargets = []string{
	"face",
	"name",
	"phone number",
	"email",
	"physical address",
	"card number",
	"id or license",
	"signature",
	"confidential stamp",
	"password or sensitive text",
}

// RegionFinder locates candidate sensitive regions in an encoded image.
// Implementations must return either a complete list or an error, never
// both.
type RegionFinder interface {
	FindRegions(ctx context.Context, img []byte, mimeType string) ([]session.Candidate, error)
}

// Client calls an HTTP detection service.
//
// Request (JSON): {"image_b64": ..., "mime_type": ..., "targets": [...]}.
// Response (JSON): {"regions": [{"label", "confidence", "box_2d"}, ...]}
// where box_2d is exactly [ymin, xmin, ymax, xmax] on the 0-1000 grid.
type Client struct {
	Endpoint   string
	APIKey     string
	Targets    []string
	HTTPClient *http.Client
}

// NewClient returns a client for the given endpoint. The API key may be
// empty for unauthenticated services.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Targets:  DefaultTargets,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type detectRequest struct {
	ImageB64 string   `json:"image_b64"`
	MimeType string   `json:"mime_type"`
	Targets  []string `json:"targets"`
}

type detectResponse struct {
	Regions []regionPayload `json:"regions"`
}

type regionPayload struct {
	Label      string    `json:"label"`
	Confidence *float64  `json:"confidence"`
	Box2D      []float64 `json:"box_2d"`
}

// FindRegions posts the encoded image to the service and returns its
// candidate regions in response order. Any malformed region (wrong box_2d
// arity, missing label or confidence) fails the whole call: a partial
// list is never accepted.
func (c *Client) FindRegions(ctx context.Context, img []byte, mimeType string) ([]session.Candidate, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrService)
	}

	body, err := json.Marshal(detectRequest{
		ImageB64: base64.StdEncoding.EncodeToString(img),
		MimeType: mimeType,
		Targets:  c.targets(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrService, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrService, err)
	}

	return parseRegions(payload)
}

func (c *Client) targets() []string {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return DefaultTargets
}

// parseRegions validates and converts the service response. Validation
// is all-or-nothing per the service contract.
func parseRegions(payload []byte) ([]session.Candidate, error) {
	var resp detectResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrService, err)
	}

	cands := make([]session.Candidate, 0, len(resp.Regions))
	for i, r := range resp.Regions {
		if r.Label == "" {
			return nil, fmt.Errorf("%w: region %d is missing a label", ErrService, i)
		}
		if r.Confidence == nil {
			return nil, fmt.Errorf("%w: region %d is missing a confidence", ErrService, i)
		}
		if len(r.Box2D) != 4 {
			return nil, fmt.Errorf("%w: region %d box_2d has %d values, want 4", ErrService, i, len(r.Box2D))
		}

		// Confidence is informational only; clamp rather than reject.
		conf := *r.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}

		cands = append(cands, session.Candidate{
			Label:      r.Label,
			Confidence: conf,
			Box: geometry.Box{
				YMin: r.Box2D[0],
				XMin: r.Box2D[1],
				YMax: r.Box2D[2],
				XMax: r.Box2D[3],
			},
		})
	}

	return cands, nil
}

// ImagePayload encodes an in-memory image for a detection request. PNG is
// used so the service sees exactly the session's pixels.
func ImagePayload(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("%w: encode image: %v", ErrService, err)
	}
	return buf.Bytes(), "image/png", nil
}
