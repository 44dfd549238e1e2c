package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redact-tools/redact-mcp/internal/detector"
	"github.com/redact-tools/redact-mcp/internal/geometry"
	"github.com/redact-tools/redact-mcp/internal/redact"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// JSON-RPC error codes for the failure taxonomy. Input errors, detection
// service errors, and composition errors each get their own code so
// clients can present them differently; everything else is -32000.
const (
	codeToolFailed  = -32000
	codeInputError  = -32001
	codeDetectError = -32002
	codeComposeErr  = -32003
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "detect_regions").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		code, message := classifyError(err)
		return s.errorResponse(req.ID, code, message, err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// classifyError maps a tool error onto the taxonomy. Every failure
// returns control to a well-defined prior state; none is fatal.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrDecode), errors.Is(err, session.ErrNoImage):
		return codeInputError, "Input error"
	case errors.Is(err, detector.ErrService):
		return codeDetectError, "Detection service error"
	case errors.Is(err, redact.ErrCompose):
		return codeComposeErr, "Composition error"
	default:
		return codeToolFailed, "Tool execution failed"
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session lifecycle
	case "image_load":
		return s.handleImageLoad(args)
	case "image_clear":
		return s.handleImageClear(args)
	case "session_status":
		return s.handleSessionStatus(args)

	// Detection & selection
	case "detect_regions":
		return s.handleDetectRegions(args)
	case "list_regions":
		return s.handleListRegions(args)
	case "toggle_region":
		return s.handleToggleRegion(args)

	// Style & rendering
	case "set_style":
		return s.handleSetStyle(args)
	case "overlay_preview":
		return s.handleOverlayPreview(args)
	case "export_redacted":
		return s.handleExportRedacted(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Session Lifecycle Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	info, err := s.session.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"state":      s.session.State(),
		"file_label": info.FileLabel,
		"width":      info.Width,
		"height":     info.Height,
		"format":     info.Format,
	}, nil
}

func (s *Server) handleImageClear(json.RawMessage) (interface{}, error) {
	s.session.Clear()
	return map[string]interface{}{"state": s.session.State()}, nil
}

func (s *Server) handleSessionStatus(json.RawMessage) (interface{}, error) {
	status := map[string]interface{}{
		"state":      s.session.State(),
		"detections": len(s.session.Detections()),
		"selected":   s.session.SelectedCount(),
		"style": map[string]interface{}{
			"fill_color":   s.style.Hex(),
			"fill_opacity": s.style.Opacity,
			"mode":         s.style.Mode,
		},
	}
	if info := s.session.Info(); info != nil {
		status["file_label"] = info.FileLabel
		status["width"] = info.Width
		status["height"] = info.Height
	}
	return status, nil
}

// === Detection & Selection Handlers ===

// handleDetectRegions runs one detection call against the loaded image
// and wholesale-replaces the working list with its result. The analysis
// token discards a response that has been superseded by a newer call, so
// out-of-order results are never applied.
func (s *Server) handleDetectRegions(json.RawMessage) (interface{}, error) {
	if s.finder == nil {
		return nil, fmt.Errorf("%w: no detector configured", detector.ErrService)
	}
	img := s.session.Image()
	if img == nil {
		return nil, session.ErrNoImage
	}

	payload, mime, err := detector.ImagePayload(img)
	if err != nil {
		return nil, err
	}

	token, err := s.session.BeginAnalysis()
	if err != nil {
		return nil, err
	}

	cands, err := s.finder.FindRegions(context.Background(), payload, mime)
	if err != nil {
		// Fall back to the pre-call state; the list is unchanged.
		s.session.AbortAnalysis(token)
		return nil, err
	}

	if !s.session.FinishAnalysis(token, cands) {
		return nil, fmt.Errorf("stale detection response discarded")
	}

	return map[string]interface{}{
		"state":   s.session.State(),
		"regions": s.regionPlacements(),
	}, nil
}

func (s *Server) handleListRegions(json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"regions": s.regionPlacements()}, nil
}

// regionPlacements projects the current detections into overlay
// placements (percent-of-container rects plus selection state).
func (s *Server) regionPlacements() []redact.RegionPlacement {
	dets := s.session.Detections()
	out := make([]redact.RegionPlacement, len(dets))
	for i, d := range dets {
		out[i] = redact.RegionPlacement{
			ID:         d.ID,
			Label:      d.Label,
			Confidence: d.Confidence,
			Selected:   d.Selected,
			Rect:       geometry.MapToPercent(d.Box),
		}
	}
	return out
}

type toggleRegionArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleToggleRegion(args json.RawMessage) (interface{}, error) {
	var a toggleRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	found, err := s.session.Toggle(a.ID)
	if err != nil {
		return nil, err
	}
	// Unknown identities are reported, not failed: the region may have
	// been replaced or cleared after the client queued the toggle.
	return map[string]interface{}{
		"found":    found,
		"selected": s.session.SelectedCount(),
		"regions":  s.regionPlacements(),
	}, nil
}

// === Style & Rendering Handlers ===

type setStyleArgs struct {
	FillColor   string   `json:"fill_color"`
	FillOpacity *float64 `json:"fill_opacity"`
	Mode        string   `json:"mode"`
}

func (s *Server) handleSetStyle(args json.RawMessage) (interface{}, error) {
	var a setStyleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opacity := s.style.Opacity
	if a.FillOpacity != nil {
		opacity = *a.FillOpacity
	}
	hex := a.FillColor
	if hex == "" {
		hex = s.style.Hex()
	}
	mode := a.Mode
	if mode == "" {
		mode = string(s.style.Mode)
	}

	st, err := redact.ParseStyle(hex, opacity, mode)
	if err != nil {
		return nil, err
	}
	s.style = st

	return map[string]interface{}{
		"fill_color":   st.Hex(),
		"fill_opacity": st.Opacity,
		"mode":         st.Mode,
	}, nil
}

type overlayPreviewArgs struct {
	MaxWidth   int  `json:"max_width"`
	ShowLabels bool `json:"show_labels"`
}

func (s *Server) handleOverlayPreview(args json.RawMessage) (interface{}, error) {
	var a overlayPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = s.previewMaxWidth
	}

	img := s.session.Image()
	if img == nil {
		return nil, session.ErrNoImage
	}

	return redact.Overlay(img, s.session.Detections(), s.style, redact.OverlayOptions{
		MaxWidth:   a.MaxWidth,
		ShowLabels: a.ShowLabels,
	})
}

type exportRedactedArgs struct {
	OutputDir string `json:"output_dir"`
}

// handleExportRedacted composites and writes the artifact. The export is
// a snapshot of (pixels, detections, style) at this moment; no detection
// call is involved, and a failure leaves the session state untouched so
// the export can simply be retried.
func (s *Server) handleExportRedacted(args json.RawMessage) (interface{}, error) {
	var a exportRedactedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		a.OutputDir = s.outputDir
	}

	if err := s.session.Exportable(); err != nil {
		return nil, err
	}

	art, err := redact.Export(s.session.Image(), s.session.Detections(), s.style, s.session.FileLabel())
	if err != nil {
		return nil, err
	}

	path, err := redact.WriteArtifact(art, a.OutputDir)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"path":             path,
		"filename":         art.Filename,
		"width":            art.Width,
		"height":           art.Height,
		"redacted_regions": s.session.SelectedCount(),
		"state":            s.session.State(),
	}, nil
}
