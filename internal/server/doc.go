// Package server implements the MCP (Model Context Protocol) server for
// Voronoi diagram tools.
//
// This package provides a JSON-RPC 2.0 server that exposes diagram
// generation and inspection through the MCP protocol, so MCP clients can
// render diagrams and ask precise questions about them.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Every tool takes the diagram parameters width, height, sites, seed,
// palette and index; omitted parameters take the CLI defaults.
//
// Rendering:
//   - voronoi_render: Render to a base64 image, optionally cropped, scaled
//     and decorated with borders and site markers
//   - voronoi_save: Render to a file
//
// Queries:
//   - voronoi_sites: List generated sites
//   - voronoi_nearest: Nearest site to an arbitrary point
//   - voronoi_sample_color: Color of one cell and the site that owns it
//   - voronoi_largest_cells: Cells ranked by area
//
// # Diagram Caching
//
// Rendered diagrams are cached by their parameters in a bounded
// DiagramCache, so a render followed by several queries rasterizes once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
