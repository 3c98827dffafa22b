// Package mcp provides an MCP (Model Context Protocol) server adapter for studymate.
// It lets AI assistants process study materials and ask questions about them.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
