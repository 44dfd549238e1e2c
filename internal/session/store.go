package session

import (
	"github.com/google/uuid"

	"github.com/redact-tools/redact-mcp/internal/geometry"
)

// Candidate is a raw detection as returned by the detection service,
// before it has been ingested into a Store.
type Candidate struct {
	Label      string
	Confidence float64
	Box        geometry.Box
}

// Detection is one candidate sensitive region held by a Store.
//
// ID is assigned at ingestion time and is stable for the lifetime of the
// current image session; it is never reused, even across wholesale
// replacements with identical content, so stale UI references can never
// alias a new detection.
//
// Confidence is informational only; no control flow depends on it.
type Detection struct {
	ID         string       `json:"id"`
	Label      string       `json:"label"`
	Confidence float64      `json:"confidence"`
	Box        geometry.Box `json:"box"`
	Selected   bool         `json:"selected"`
}

// Store holds the ordered detection list for the current image and its
// selection flags. Order is the detection-service return order; it is not
// semantically meaningful but is preserved for stable list rendering.
//
// Store is not safe for concurrent use. It is mutated only in response to
// discrete user actions or the single in-flight detection response, so no
// locking is required.
type Store struct {
	detections []Detection
}

// NewStore returns an empty detection store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll atomically swaps the working list for the given candidates.
// Each inserted detection gets a fresh unique identity and starts
// selected: the product stance is opt-out of redaction, not opt-in.
func (s *Store) ReplaceAll(cands []Candidate) {
	next := make([]Detection, len(cands))
	for i, c := range cands {
		next[i] = Detection{
			ID:         uuid.NewString(),
			Label:      c.Label,
			Confidence: c.Confidence,
			Box:        c.Box,
			Selected:   true,
		}
	}
	s.detections = next
}

// Toggle flips the selection flag of the detection with the given
// identity and reports whether it was found. An unknown identity is a
// no-op, not an error: the UI event may have been queued before the list
// was replaced or cleared.
func (s *Store) Toggle(id string) bool {
	for i := range s.detections {
		if s.detections[i].ID == id {
			s.detections[i].Selected = !s.detections[i].Selected
			return true
		}
	}
	return false
}

// Clear empties the list. Used when the session resets.
func (s *Store) Clear() {
	s.detections = nil
}

// Detections returns a copy of the list in insertion order.
func (s *Store) Detections() []Detection {
	out := make([]Detection, len(s.detections))
	copy(out, s.detections)
	return out
}

// Len returns the number of detections currently held.
func (s *Store) Len() int {
	return len(s.detections)
}

// SelectedCount returns how many detections are currently selected.
func (s *Store) SelectedCount() int {
	n := 0
	for i := range s.detections {
		if s.detections[i].Selected {
			n++
		}
	}
	return n
}
