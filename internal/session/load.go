package session

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
)

// ImageInfo describes the image a session has loaded.
type ImageInfo struct {
	FileLabel string `json:"file_label"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// LoadFile decodes an image file into the session and returns its
// metadata. Supported formats are PNG, JPEG, and GIF. On failure the
// session is left in its prior state and the error wraps ErrDecode so
// callers can classify it as an input error.
func (s *Session) LoadFile(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	label := filepath.Base(path)
	if err := s.Load(img, label); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ImageInfo{
		FileLabel: label,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
	}, nil
}

// Info returns metadata for the currently loaded image, or nil if the
// session is Empty. Format is unknown here; only LoadFile sees the
// decoder's format name.
func (s *Session) Info() *ImageInfo {
	if s.img == nil {
		return nil
	}
	bounds := s.img.Bounds()
	return &ImageInfo{
		FileLabel: s.fileLabel,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}
}
