package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// diagramProperties returns the schema properties shared by every tool that
// addresses a diagram, merged with the tool's own properties.
func diagramProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Grid width in cells. Default 800",
			"default":     800,
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Grid height in cells. Default 800",
			"default":     800,
		},
		"sites": map[string]interface{}{
			"type":        "integer",
			"description": "Number of sites. Default 50",
			"default":     50,
		},
		"seed": map[string]interface{}{
			"type":        "integer",
			"description": "Random seed; the same seed always yields the same diagram. Default 42",
			"default":     42,
		},
		"palette": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"uniform", "pastel", "vivid"},
			"description": "Site color palette. Default uniform",
			"default":     "uniform",
		},
		"index": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"kdtree", "linear"},
			"description": "Nearest-site index. Both produce identical diagrams. Default kdtree",
			"default":     "kdtree",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// overlayProperties are accepted by tools that produce images.
var overlayProperties = map[string]interface{}{
	"borders": map[string]interface{}{
		"type":        "boolean",
		"description": "Draw one-pixel cell boundaries",
	},
	"border_color": map[string]interface{}{
		"type":        "string",
		"description": "Boundary color as hex (#RRGGBB). Default black",
	},
	"markers": map[string]interface{}{
		"type":        "boolean",
		"description": "Draw a dot on every site",
	},
	"labels": map[string]interface{}{
		"type":        "boolean",
		"description": "Print each site's index next to its dot",
	},
}

var regionProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional region to restrict to (x2/y2 exclusive)",
	"properties": map[string]interface{}{
		"x1": map[string]interface{}{"type": "integer"},
		"y1": map[string]interface{}{"type": "integer"},
		"x2": map[string]interface{}{"type": "integer"},
		"y2": map[string]interface{}{"type": "integer"},
	},
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Rendering
		{
			Name:        "voronoi_render",
			Description: "Render a Voronoi diagram and return it as a base64-encoded image. Every cell takes the color of its nearest site.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": diagramProperties(merge(overlayProperties, map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"},
						"description": "Image format. Default png",
						"default":     "png",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (nearest-neighbor). Default 1.0",
						"default":     1.0,
					},
					"region": regionProperty,
				})),
			},
		},
		{
			Name:        "voronoi_save",
			Description: "Render a Voronoi diagram and write it to a file. The format is taken from the file extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": diagramProperties(merge(overlayProperties, map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Output file path (.png, .jpg, .gif, .bmp, .tif)",
					},
				})),
				"required": []string{"path"},
			},
		},

		// Queries
		{
			Name:        "voronoi_sites",
			Description: "List the generated sites with their positions and colors.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": diagramProperties(nil),
			},
		},
		{
			Name:        "voronoi_nearest",
			Description: "Find the site nearest to a point. Ties go to the lowest site index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": diagramProperties(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "number",
						"description": "Query X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Query Y coordinate",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "voronoi_sample_color",
			Description: "Get the color of a cell in the rendered diagram, with its owning site.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": diagramProperties(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Cell column (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Cell row (0-based, from top)",
					},
				}),
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "voronoi_largest_cells",
			Description: "Rank the cells of the rendered diagram by area, optionally within a region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": diagramProperties(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of cells to return. Default 5",
						"default":     5,
					},
					"region": regionProperty,
				}),
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
