package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/voronoi-tools/internal/diagram"
	"github.com/ironsheep/voronoi-tools/internal/geom"
	"github.com/ironsheep/voronoi-tools/internal/imaging"
	"github.com/ironsheep/voronoi-tools/internal/sitegen"
	"github.com/ironsheep/voronoi-tools/internal/spatial"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "voronoi_render").
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
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Builds the diagram, or takes it from the cache
//  4. Calls the appropriate diagram/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Rendering
	case "voronoi_render":
		return s.handleRender(ctx, args)
	case "voronoi_save":
		return s.handleSave(ctx, args)

	// Queries
	case "voronoi_sites":
		return s.handleSites(args)
	case "voronoi_nearest":
		return s.handleNearest(args)
	case "voronoi_sample_color":
		return s.handleSampleColor(ctx, args)
	case "voronoi_largest_cells":
		return s.handleLargestCells(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// An empty data string is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating absent arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Shared arguments ===

// diagramArgs selects a diagram. Omitted fields take the defaults; sites and
// seed are pointers because zero is a meaningful value for both.
type diagramArgs struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Sites   *int    `json:"sites"`
	Seed    *uint64 `json:"seed"`
	Palette string  `json:"palette"`
	Index   string  `json:"index"`
}

func (a diagramArgs) params() diagram.Params {
	p := diagram.DefaultParams()
	if a.Width != 0 {
		p.Width = a.Width
	}
	if a.Height != 0 {
		p.Height = a.Height
	}
	if a.Sites != nil {
		p.Sites = *a.Sites
	}
	if a.Seed != nil {
		p.Seed = *a.Seed
	}
	if a.Palette != "" {
		p.Palette = sitegen.Palette(a.Palette)
	}
	if a.Index != "" {
		p.Index = spatial.Kind(a.Index)
	}
	return p
}

type overlayArgs struct {
	Borders     bool   `json:"borders"`
	BorderColor string `json:"border_color"`
	Markers     bool   `json:"markers"`
	Labels      bool   `json:"labels"`
}

func (a overlayArgs) overlay() (imaging.Overlay, error) {
	c, err := imaging.ParseHexColor(a.BorderColor)
	if err != nil {
		return imaging.Overlay{}, err
	}
	return imaging.Overlay{
		Borders:     a.Borders,
		BorderColor: c,
		Markers:     a.Markers,
		Labels:      a.Labels,
	}, nil
}

// siteInfo describes one site in tool results.
type siteInfo struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Hex   string  `json:"hex"`
}

func describeSite(i int, s geom.Site) siteInfo {
	return siteInfo{Index: i, X: s.Point.X, Y: s.Point.Y, Hex: s.Color.Hex()}
}

// === Rendering Handlers ===

type renderArgs struct {
	diagramArgs
	overlayArgs
	Format string          `json:"format"`
	Scale  float64         `json:"scale"`
	Region *imaging.Region `json:"region"`
}

type renderResult struct {
	imaging.EncodedImage
	Params   diagram.Params `json:"params"`
	RenderMS float64        `json:"render_ms"`
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "png"
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	ov, err := a.overlay()
	if err != nil {
		return nil, err
	}

	d, err := s.cache.Get(ctx, a.params(), s.opts)
	if err != nil {
		return nil, err
	}

	base, err := d.Image()
	if err != nil {
		return nil, err
	}
	img := ov.Apply(base, d.Sites)
	if a.Region != nil {
		img, err = imaging.Crop(img, *a.Region, a.Scale)
	} else {
		img, err = imaging.Scale(img, a.Scale)
	}
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodeBase64(img, a.Format)
	if err != nil {
		return nil, err
	}
	return &renderResult{
		EncodedImage: *enc,
		Params:       d.Params,
		RenderMS:     float64(d.Stats.Elapsed.Microseconds()) / 1000,
	}, nil
}

type saveArgs struct {
	diagramArgs
	overlayArgs
	Path string `json:"path"`
}

type saveResult struct {
	Path   string         `json:"path"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Params diagram.Params `json:"params"`
}

func (s *Server) handleSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	ov, err := a.overlay()
	if err != nil {
		return nil, err
	}

	d, err := s.cache.Get(ctx, a.params(), s.opts)
	if err != nil {
		return nil, err
	}
	base, err := d.Image()
	if err != nil {
		return nil, err
	}
	img := ov.Apply(base, d.Sites)
	if err := imaging.Save(a.Path, img); err != nil {
		return nil, err
	}
	s.logger.Info("saved diagram", "path", a.Path, "sites", len(d.Sites))
	return &saveResult{
		Path:   a.Path,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Params: d.Params,
	}, nil
}

// === Query Handlers ===

type sitesResult struct {
	Count int        `json:"count"`
	Sites []siteInfo `json:"sites"`
}

func (s *Server) handleSites(args json.RawMessage) (interface{}, error) {
	var a diagramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	d, err := diagram.Prepare(a.params())
	if err != nil {
		return nil, err
	}
	out := make([]siteInfo, len(d.Sites))
	for i, site := range d.Sites {
		out[i] = describeSite(i, site)
	}
	return &sitesResult{Count: len(out), Sites: out}, nil
}

type nearestArgs struct {
	diagramArgs
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type nearestResult struct {
	Query    geom.Point          `json:"query"`
	Site     siteInfo            `json:"site"`
	Distance float64             `json:"distance"`
	Color    imaging.ColorResult `json:"color"`
}

func (s *Server) handleNearest(args json.RawMessage) (interface{}, error) {
	var a nearestArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("x and y are required")
	}
	q := geom.Pt(*a.X, *a.Y)

	d, err := diagram.Prepare(a.params())
	if err != nil {
		return nil, err
	}
	i, site := d.NearestSite(q)
	return &nearestResult{
		Query:    q,
		Site:     describeSite(i, site),
		Distance: math.Hypot(site.Point.X-q.X, site.Point.Y-q.Y),
		Color:    imaging.Describe(site.Color),
	}, nil
}

type sampleColorArgs struct {
	diagramArgs
	X *int `json:"x"`
	Y *int `json:"y"`
}

type sampleColorResult struct {
	X     int                 `json:"x"`
	Y     int                 `json:"y"`
	Color imaging.ColorResult `json:"color"`
	Site  siteInfo            `json:"site"`
}

func (s *Server) handleSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.X == nil || a.Y == nil {
		return nil, errors.New("x and y are required")
	}

	d, err := s.cache.Get(ctx, a.params(), s.opts)
	if err != nil {
		return nil, err
	}
	img, err := d.Image()
	if err != nil {
		return nil, err
	}
	c, err := imaging.SampleColor(img, *a.X, *a.Y)
	if err != nil {
		return nil, err
	}
	i, site := d.NearestSite(geom.Pt(float64(*a.X), float64(*a.Y)))
	return &sampleColorResult{
		X:     *a.X,
		Y:     *a.Y,
		Color: *c,
		Site:  describeSite(i, site),
	}, nil
}

type largestCellsArgs struct {
	diagramArgs
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region"`
}

func (s *Server) handleLargestCells(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a largestCellsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.Count < 0 {
		return nil, fmt.Errorf("count must be positive, got %d", a.Count)
	}

	d, err := s.cache.Get(ctx, a.params(), s.opts)
	if err != nil {
		return nil, err
	}
	img, err := d.Image()
	if err != nil {
		return nil, err
	}
	return imaging.LargestCells(img, a.Count, a.Region)
}
