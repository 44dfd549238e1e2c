// Package server implements an MCP (Model Context Protocol) server that
// exposes image redaction tools over stdio using JSON-RPC 2.0.
//
// One server owns one session: load an image, detect sensitive regions
// through the configured detector, adjust the selection and style, and
// export a redacted copy. Tool failures are mapped onto distinct
// JSON-RPC error codes (input -32001, detection service -32002,
// composition -32003) and never terminate the server.
package server
