package session

import (
	"errors"
	"fmt"
	"image"
)

// State identifies where a session is in its lifecycle:
//
//	Empty -> Loaded -> (Analyzing -> Annotated)* -> exported any number of times
//
// Analyzing is re-entrant (re-running detection from Annotated wholesale
// replaces the list), export never changes state, and Empty is reachable
// again from anywhere via Clear.
type State string

const (
	StateEmpty     State = "empty"
	StateLoaded    State = "loaded"
	StateAnalyzing State = "analyzing"
	StateAnnotated State = "annotated"
)

var (
	// ErrDecode wraps image load/decode failures. The session stays Empty.
	ErrDecode = errors.New("image decode failed")

	// ErrNoImage is returned for operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrAnalyzing is returned when an operation is refused because a
	// detection call is outstanding. Toggling or exporting against the
	// stale pre-call list would present a confusing half-updated state.
	ErrAnalyzing = errors.New("detection in progress")
)

// Session is the working unit for one uploaded image: the decoded source
// pixels (immutable once loaded), a display label derived from the file,
// and the detection store. A session exclusively owns its detection list.
type Session struct {
	img       image.Image
	fileLabel string
	store     *Store
	state     State

	// Analysis tokens guard against out-of-order detection responses: a
	// response is applied only if its token is still the latest issued.
	seq     uint64
	pending uint64
	resume  State
}

// New returns a session in the Empty state.
func New() *Session {
	return &Session{store: NewStore(), state: StateEmpty}
}

// Load installs decoded source pixels and moves the session to Loaded.
// Any prior image, detections, and outstanding analysis are discarded.
func (s *Session) Load(img image.Image, fileLabel string) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrDecode)
	}
	s.img = img
	s.fileLabel = fileLabel
	s.store.Clear()
	s.state = StateLoaded
	s.pending = 0
	return nil
}

// Clear resets the session to Empty, discarding the image and all
// detections. Any outstanding analysis response will be ignored.
func (s *Session) Clear() {
	s.img = nil
	s.fileLabel = ""
	s.store.Clear()
	s.state = StateEmpty
	s.pending = 0
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Image returns the source pixels, or nil if the session is Empty.
func (s *Session) Image() image.Image { return s.img }

// FileLabel returns the display/export name derived from the upload.
func (s *Session) FileLabel() string { return s.fileLabel }

// Detections returns a copy of the current detection list.
func (s *Session) Detections() []Detection { return s.store.Detections() }

// SelectedCount returns how many detections are currently selected.
func (s *Session) SelectedCount() int { return s.store.SelectedCount() }

// Toggle flips the selection of one detection by identity. It is refused
// while a detection call is outstanding and reports found=false for
// identities that are no longer present.
func (s *Session) Toggle(id string) (bool, error) {
	if s.state == StateAnalyzing {
		return false, ErrAnalyzing
	}
	return s.store.Toggle(id), nil
}

// BeginAnalysis marks the session Analyzing and issues a token for the
// detection call about to be made. Starting a new analysis while one is
// outstanding is allowed: the newer token supersedes the old one and the
// stale response will be ignored when it arrives.
func (s *Session) BeginAnalysis() (uint64, error) {
	if s.img == nil {
		return 0, ErrNoImage
	}
	if s.state != StateAnalyzing {
		s.resume = s.state
	}
	s.seq++
	s.pending = s.seq
	s.state = StateAnalyzing
	return s.seq, nil
}

// FinishAnalysis applies a detection result, wholesale-replacing the
// working list, and moves the session to Annotated. A stale token (a
// newer analysis started since) is ignored and reported as false; the
// list is never partially populated.
func (s *Session) FinishAnalysis(token uint64, cands []Candidate) bool {
	if s.state != StateAnalyzing || token != s.pending {
		return false
	}
	s.store.ReplaceAll(cands)
	s.state = StateAnnotated
	s.pending = 0
	return true
}

// AbortAnalysis handles a failed detection call: the session falls back
// to its pre-call state with the detection list unchanged. Stale tokens
// are ignored.
func (s *Session) AbortAnalysis(token uint64) bool {
	if s.state != StateAnalyzing || token != s.pending {
		return false
	}
	s.state = s.resume
	s.pending = 0
	return true
}

// Exportable reports whether an export may run right now, returning the
// blocking error if not. Export is allowed as soon as an image is loaded
// (an empty selection yields a pixel-identical copy) but not while a
// detection call is outstanding.
func (s *Session) Exportable() error {
	if s.img == nil {
		return ErrNoImage
	}
	if s.state == StateAnalyzing {
		return ErrAnalyzing
	}
	return nil
}
