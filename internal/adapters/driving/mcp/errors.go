// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Stratum. It lets AI assistants search, expand and manage the
// local retrieval index.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
