package server

// Tool represents an MCP tool definition exposed via tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// handleToolsList responds to a tools/list request with the tool catalog.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// GetToolDefinitions returns the catalog of redaction tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file (PNG, JPEG, or GIF) into the session. Replaces any previously loaded image and discards its detections.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path to the image file to load",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_clear",
			Description: "Clear the session: discard the loaded image and all detected regions.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "session_status",
			Description: "Report the session state, loaded image metadata, detection counts, and the active redaction style.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "detect_regions",
			Description: "Send the loaded image to the detection service and replace the working region list with its findings. Every detected region starts selected.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "list_regions",
			Description: "List the detected regions with their labels, confidences, selection state, and percent-of-frame placement.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "toggle_region",
			Description: "Flip the selection of one detected region by its identifier. Only selected regions are redacted on export.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Identifier of the region to toggle",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "set_style",
			Description: "Update the redaction style. Omitted fields keep their current values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"fill_color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color as a hex string, e.g. #000000",
					},
					"fill_opacity": map[string]interface{}{
						"type":        "number",
						"description": "Fill opacity from 0.0 to 1.0",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Redaction mode",
						"enum":        []string{"fill", "blur", "pixelate"},
					},
				},
			},
		},
		{
			Name:        "overlay_preview",
			Description: "Render a preview of the loaded image with the current redaction style applied to selected regions and outlines on the rest. Returns a base64-encoded PNG; the source image is not modified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_width": map[string]interface{}{
						"type":        "number",
						"description": "Maximum preview width in pixels (default 1024); the image is never upscaled",
					},
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw region labels and confidences on the preview",
					},
				},
			},
		},
		{
			Name:        "export_redacted",
			Description: "Composite the selected regions onto a copy of the source image and write it as a PNG named redacted-<original name>. The source pixels are never modified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write the artifact into (default: configured output directory)",
					},
				},
			},
		},
	}
}
