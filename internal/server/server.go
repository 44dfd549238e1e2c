package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/redact-tools/redact-mcp/internal/detector"
	"github.com/redact-tools/redact-mcp/internal/redact"
	"github.com/redact-tools/redact-mcp/internal/session"
)

// Server handles MCP protocol communication for one redaction session.
type Server struct {
	session *session.Session
	finder  detector.RegionFinder
	style   redact.Style

	outputDir       string
	previewMaxWidth int
}

// Options configures a server instance.
type Options struct {
	// Finder locates candidate regions. Required.
	Finder detector.RegionFinder

	// Style is the initial redaction style; the zero value means the
	// default opaque black fill.
	Style redact.Style

	// OutputDir receives exported artifacts. Defaults to ".".
	OutputDir string

	// PreviewMaxWidth caps the overlay preview width. Defaults to 1024.
	PreviewMaxWidth int
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance with an empty session.
func New(opts Options) *Server {
	style := opts.Style
	if style == (redact.Style{}) {
		style = redact.DefaultStyle()
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	previewMaxWidth := opts.PreviewMaxWidth
	if previewMaxWidth == 0 {
		previewMaxWidth = 1024
	}

	return &Server{
		session:         session.New(),
		finder:          opts.Finder,
		style:           style,
		outputDir:       outputDir,
		previewMaxWidth: previewMaxWidth,
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout.
func (s *Server) Run() error {
	return s.serve(os.Stdin, os.Stdout)
}

func (s *Server) serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "redact-mcp",
				"version": "0.1.0",
			},
		},
	}
}
