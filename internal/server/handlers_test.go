package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/voronoi-tools/internal/diagram"
	"github.com/ironsheep/voronoi-tools/internal/sitegen"
)

// smallDiagram are arguments for a diagram cheap enough to render per test.
func smallDiagram(extra map[string]interface{}) map[string]interface{} {
	args := map[string]interface{}{
		"width":  40,
		"height": 30,
		"sites":  6,
		"seed":   7,
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *MCPError {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("failed to decode tool result: %v", err)
		}
	}
	return nil
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := New()
	var res struct {
		Width       int            `json:"width"`
		Height      int            `json:"height"`
		ImageBase64 string         `json:"image_base64"`
		MimeType    string         `json:"mime_type"`
		Params      diagram.Params `json:"params"`
	}
	if err := callTool(t, s, "voronoi_render", smallDiagram(nil), &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.Width != 40 || res.Height != 30 {
		t.Errorf("size: got %dx%d, want 40x30", res.Width, res.Height)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime type: got %s, want image/png", res.MimeType)
	}
	if res.Params.Palette != sitegen.Uniform {
		t.Errorf("palette: got %q, want uniform", res.Params.Palette)
	}

	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}

	d, err := diagram.Build(context.Background(), res.Params, s.opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {39, 29}, {20, 15}} {
		r, g, b, _ := img.At(p[0], p[1]).RGBA()
		want := d.Buffer.At(p[0], p[1])
		if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
			t.Errorf("(%d,%d): image and diagram disagree", p[0], p[1])
		}
	}
}

func TestHandleToolsCall_RenderScaledRegion(t *testing.T) {
	s := New()
	var res struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	args := smallDiagram(map[string]interface{}{
		"scale":   2.0,
		"borders": true,
		"markers": true,
		"region":  map[string]int{"x1": 10, "y1": 5, "x2": 20, "y2": 25},
	})
	if err := callTool(t, s, "voronoi_render", args, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Width != 20 || res.Height != 40 {
		t.Errorf("size: got %dx%d, want 20x40", res.Width, res.Height)
	}
}

func TestHandleToolsCall_RenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"zero sites", smallDiagram(map[string]interface{}{"sites": 0})},
		{"negative width", smallDiagram(map[string]interface{}{"width": -5})},
		{"bad format", smallDiagram(map[string]interface{}{"format": "webp"})},
		{"bad palette", smallDiagram(map[string]interface{}{"palette": "neon"})},
		{"bad border color", smallDiagram(map[string]interface{}{"borders": true, "border_color": "#XYZ"})},
		{"grid too large", smallDiagram(map[string]interface{}{"width": 100000, "height": 100000})},
		{"cell count overflows", smallDiagram(map[string]interface{}{"width": 4611686018427387904, "height": 4})},
		{"region outside", smallDiagram(map[string]interface{}{"region": map[string]int{"x1": 0, "y1": 0, "x2": 100, "y2": 10}})},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := callTool(t, s, "voronoi_render", tt.args, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != -32000 {
				t.Errorf("code: got %d, want -32000", err.Code)
			}
		})
	}
}

func TestHandleToolsCall_RenderCaches(t *testing.T) {
	s := New()
	if err := callTool(t, s, "voronoi_render", smallDiagram(nil), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Same diagram, spelled differently.
	if err := callTool(t, s, "voronoi_sample_color", smallDiagram(map[string]interface{}{
		"palette": "UNIFORM", "index": "kdtree", "x": 1, "y": 1,
	}), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache: got %d entries, want 1", s.cache.Len())
	}
}

func TestHandleToolsCall_Sites(t *testing.T) {
	s := New()
	var res sitesResult
	if err := callTool(t, s, "voronoi_sites", smallDiagram(nil), &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := sitegen.Generate(6, 40, 30, 7)
	if res.Count != len(want) || len(res.Sites) != len(want) {
		t.Fatalf("count: got %d/%d, want %d", res.Count, len(res.Sites), len(want))
	}
	for i, site := range res.Sites {
		if site.Index != i {
			t.Errorf("site %d: index %d", i, site.Index)
		}
		if site.X != want[i].Point.X || site.Y != want[i].Point.Y {
			t.Errorf("site %d: got (%g,%g), want %v", i, site.X, site.Y, want[i].Point)
		}
		if site.Hex != want[i].Color.Hex() {
			t.Errorf("site %d: got %s, want %s", i, site.Hex, want[i].Color.Hex())
		}
	}
}

func TestHandleToolsCall_SitesDefaults(t *testing.T) {
	s := New()
	var res sitesResult
	if err := callTool(t, s, "voronoi_sites", nil, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Count != diagram.DefaultSites {
		t.Errorf("count: got %d, want %d", res.Count, diagram.DefaultSites)
	}
}

func TestHandleToolsCall_Nearest(t *testing.T) {
	s := New()
	sites := sitegen.Generate(6, 40, 30, 7)

	// Querying exactly at a site finds that site at distance zero.
	target := sites[3].Point
	var res nearestResult
	args := smallDiagram(map[string]interface{}{"x": target.X, "y": target.Y})
	if err := callTool(t, s, "voronoi_nearest", args, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Distance != 0 {
		t.Errorf("distance: got %g, want 0", res.Distance)
	}
	if res.Site.X != target.X || res.Site.Y != target.Y {
		t.Errorf("site: got (%g,%g), want %v", res.Site.X, res.Site.Y, target)
	}
	if res.Color.Hex != sites[res.Site.Index].Color.Hex() {
		t.Errorf("color: got %s, want %s", res.Color.Hex, sites[res.Site.Index].Color.Hex())
	}
}

func TestHandleToolsCall_NearestMissingCoordinates(t *testing.T) {
	s := New()
	err := callTool(t, s, "voronoi_nearest", smallDiagram(map[string]interface{}{"x": 3}), nil)
	if err == nil {
		t.Fatal("expected error for missing y")
	}
	if !strings.Contains(err.Data.(string), "required") {
		t.Errorf("error data: got %v", err.Data)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New()
	var res sampleColorResult
	args := smallDiagram(map[string]interface{}{"x": 12, "y": 9})
	if err := callTool(t, s, "voronoi_sample_color", args, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.X != 12 || res.Y != 9 {
		t.Errorf("coordinates: got (%d,%d)", res.X, res.Y)
	}
	// The sampled cell takes the color of the site that owns it.
	if res.Color.Hex != res.Site.Hex {
		t.Errorf("cell color %s differs from owner color %s", res.Color.Hex, res.Site.Hex)
	}
}

func TestHandleToolsCall_SampleColorOutOfBounds(t *testing.T) {
	s := New()
	err := callTool(t, s, "voronoi_sample_color", smallDiagram(map[string]interface{}{"x": 40, "y": 0}), nil)
	if err == nil {
		t.Fatal("expected error for out-of-bounds cell")
	}
}

func TestHandleToolsCall_LargestCells(t *testing.T) {
	s := New()
	var res struct {
		Cells []struct {
			Hex    string `json:"hex"`
			Pixels int    `json:"pixels"`
		} `json:"cells"`
		TotalPixels int `json:"total_pixels"`
	}
	args := smallDiagram(map[string]interface{}{"count": 3})
	if err := callTool(t, s, "voronoi_largest_cells", args, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.TotalPixels != 40*30 {
		t.Errorf("total: got %d, want %d", res.TotalPixels, 40*30)
	}
	if len(res.Cells) == 0 || len(res.Cells) > 3 {
		t.Fatalf("got %d cells, want 1..3", len(res.Cells))
	}
	for i := 1; i < len(res.Cells); i++ {
		if res.Cells[i].Pixels > res.Cells[i-1].Pixels {
			t.Errorf("cells not sorted by area: %v", res.Cells)
		}
	}
}

func TestHandleToolsCall_Save(t *testing.T) {
	s := New()
	path := filepath.Join(t.TempDir(), "diagram.png")

	var res saveResult
	args := smallDiagram(map[string]interface{}{"path": path, "borders": true})
	if err := callTool(t, s, "voronoi_save", args, &res); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Width != 40 || res.Height != 30 {
		t.Errorf("size: got %dx%d", res.Width, res.Height)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved file is not a png: %v", err)
	}
}

func TestHandleToolsCall_SaveErrors(t *testing.T) {
	s := New()
	dir := t.TempDir()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing path", smallDiagram(nil)},
		{"unknown extension", smallDiagram(map[string]interface{}{"path": filepath.Join(dir, "out.xyz")})},
		{"missing directory", smallDiagram(map[string]interface{}{"path": filepath.Join(dir, "nope", "out.png")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := callTool(t, s, "voronoi_save", tt.args, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()
	err := callTool(t, s, "voronoi_explode", map[string]interface{}{}, nil)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if err.Code != -32000 {
		t.Errorf("code: got %d, want -32000", err.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`[1,2,3]`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestExecuteTool_EveryDefinedToolDispatches(t *testing.T) {
	s := New()
	for _, tool := range GetToolDefinitions() {
		_, err := s.executeTool(context.Background(), tool.Name, json.RawMessage(`{"width":-1}`))
		if err != nil && strings.HasPrefix(err.Error(), "unknown tool") {
			t.Errorf("tool %s has no handler", tool.Name)
		}
	}
}

func TestDiagramArgs_Params(t *testing.T) {
	zero := 0
	seed := uint64(0)
	a := diagramArgs{Sites: &zero, Seed: &seed, Palette: "vivid"}
	p := a.params()

	def := diagram.DefaultParams()
	if p.Width != def.Width || p.Height != def.Height {
		t.Errorf("dimensions: got %dx%d, want defaults", p.Width, p.Height)
	}
	if p.Sites != 0 || p.Seed != 0 {
		t.Errorf("explicit zero sites/seed were replaced: %+v", p)
	}
	if p.Palette != sitegen.Vivid {
		t.Errorf("palette: got %q", p.Palette)
	}
}

func TestExecuteTool_OversizedGridReturnsError(t *testing.T) {
	s := New()
	args := json.RawMessage(`{"width":4611686018427387904,"height":4,"sites":2}`)
	for _, name := range []string{"voronoi_render", "voronoi_sample_color", "voronoi_largest_cells", "voronoi_save", "voronoi_sites"} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.executeTool(context.Background(), name, args); err == nil {
				t.Error("expected error for oversized grid")
			}
		})
	}
	if s.cache.Len() != 0 {
		t.Errorf("cache: got %d entries, want 0", s.cache.Len())
	}
}
