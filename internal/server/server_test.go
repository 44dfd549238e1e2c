package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/redact-tools/redact-mcp/internal/detector"
)

func newTestServer() *Server {
	return New(Options{Finder: &detector.Stub{}})
}

func request(t *testing.T, s *Server, method string, params interface{}) *MCPResponse {
	t.Helper()

	req := &MCPRequest{JSONRPC: "2.0", ID: 1, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("failed to marshal params: %v", err)
		}
		req.Params = raw
	}
	return s.handleRequest(req)
}

func TestHandleInitialize(t *testing.T) {
	resp := request(t, newTestServer(), "initialize", nil)
	if resp.Error != nil {
		t.Fatalf("initialize failed: %+v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info, ok := result["serverInfo"].(map[string]interface{})
	if !ok || info["name"] != "redact-mcp" {
		t.Errorf("serverInfo: got %v", result["serverInfo"])
	}
}

func TestHandlePing(t *testing.T) {
	resp := request(t, newTestServer(), "ping", nil)
	if resp.Error != nil {
		t.Errorf("ping failed: %+v", resp.Error)
	}
}

func TestHandleNotificationNoResponse(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	if resp != nil {
		t.Error("notifications must not produce a response")
	}
}

func TestHandleMethodNotFound(t *testing.T) {
	resp := request(t, newTestServer(), "resources/list", nil)
	if resp.Error == nil || resp.Error.Code != -32601 {
		t.Errorf("got %+v, want -32601", resp.Error)
	}
}

func TestHandleToolsList(t *testing.T) {
	resp := request(t, newTestServer(), "tools/list", nil)
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools is not a []Tool")
	}

	want := []string{
		"image_load", "image_clear", "session_status",
		"detect_regions", "list_regions", "toggle_region",
		"set_style", "overlay_preview", "export_redacted",
	}
	if len(tools) != len(want) {
		t.Fatalf("tool count: got %d, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tool %d: got %s, want %s", i, tools[i].Name, name)
		}
		if tools[i].InputSchema == nil {
			t.Errorf("tool %s has no input schema", name)
		}
	}
}

func TestServe_RequestResponseLoop(t *testing.T) {
	in := strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`not valid json` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n",
	)
	var out bytes.Buffer

	if err := newTestServer().serve(in, &out); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("responses: got %d, want 2 (malformed line skipped)", len(lines))
	}

	var first, second MCPResponse
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first response not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second response not JSON: %v", err)
	}
	if first.ID != float64(1) || second.ID != float64(2) {
		t.Errorf("response IDs: got %v, %v", first.ID, second.ID)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	resp := request(t, newTestServer(), "tools/call", ToolCallParams{Name: "no_such_tool"})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("got %+v, want -32000", resp.Error)
	}
}
