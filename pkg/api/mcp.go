package api

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/kit"
)

// RegisterMCPTools registers the vaxatlas MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, a *atlas.Atlas, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name), kit.Instrument(name))(ep)
	}
	registerNormalizeName(srv, wrap("normalize_name", normalizeEndpoint()))
	registerDepartmentInfo(srv, wrap("department_info", departmentEndpoint(a)))
	registerListDepartments(srv, wrap("list_departments", listDepartmentsEndpoint(a)))
	registerCoverageStats(srv, wrap("coverage_stats", statsEndpoint(a)))
}

func registerNormalizeName(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("normalize_name",
		mcp.WithDescription("Normalize a French region or department name to its canonical lookup key, with suggestions for unknown names."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Free-text region or department name")),
		mcp.WithString("kind", mcp.Description("region (default) or department")),
	)
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		name, _ := args["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("name is required")
		}
		kind, _ := args["kind"].(string)
		return &kit.MCPDecodeResult{Request: &normalizeReq{Name: name, Kind: kind}}, nil
	})
}

func registerDepartmentInfo(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("department_info",
		mcp.WithDescription("Resolve a French department code (01-95, 2A, 2B, 971-976) to its name and region."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Department code")),
	)
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		code, _ := req.GetArguments()["code"].(string)
		return &kit.MCPDecodeResult{Request: &departmentReq{Code: code}}, nil
	})
}

func registerListDepartments(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("list_departments",
		mcp.WithDescription("List French departments, optionally only those of one region."),
		mcp.WithString("region", mcp.Description("Region name filter (any spelling)")),
	)
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		region, _ := req.GetArguments()["region"].(string)
		return &kit.MCPDecodeResult{Request: &listDepartmentsReq{Region: region}}, nil
	})
}

func registerCoverageStats(srv *server.MCPServer, ep kit.Endpoint) {
	tool := mcp.NewTool("coverage_stats",
		mcp.WithDescription("Vaccination coverage rows, yearly series and averages for France, a region or a department."),
		mcp.WithString("level", mcp.Required(), mcp.Description("nation, region or department")),
		mcp.WithString("name", mcp.Description("Region or department name")),
		mcp.WithString("code", mcp.Description("Department code")),
		mcp.WithString("indicators", mcp.Description("Comma-separated indicator columns; empty selects every reported one")),
	)
	kit.RegisterMCPTool(srv, tool, ep, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		level, _ := args["level"].(string)
		name, _ := args["name"].(string)
		code, _ := args["code"].(string)
		indicators, _ := args["indicators"].(string)

		var t coverage.Target
		switch level {
		case "nation", "france":
			t = coverage.NationTarget()
		case "region":
			if name == "" {
				return nil, fmt.Errorf("region level needs a name")
			}
			t = coverage.RegionTarget(name)
		case "department":
			if name == "" && code == "" {
				return nil, fmt.Errorf("department level needs a code or a name")
			}
			t = coverage.DepartmentTarget(code, name)
		default:
			return nil, fmt.Errorf("unknown level %q", level)
		}
		return &kit.MCPDecodeResult{Request: &statsReq{Target: t, Indicators: splitList(indicators)}}, nil
	})
}
