package api

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/server"
)

type toolResult struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]any) toolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, name, argsJSON)
	resp := srv.HandleMessage(context.Background(), json.RawMessage(msg))

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var res toolResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if res.Error != nil {
		t.Fatalf("%s: rpc error %s", name, res.Error.Message)
	}
	if len(res.Result.Content) == 0 {
		t.Fatalf("%s: empty result %s", name, data)
	}
	return res
}

func TestMCPTools(t *testing.T) {
	srv := server.NewMCPServer("vaxatlas", "test")
	RegisterMCPTools(srv, testAtlas(t), testLogger())

	res := callTool(t, srv, "normalize_name", map[string]any{"name": "cote d or", "kind": "department"})
	var norm normalizeResponse
	if err := json.Unmarshal([]byte(res.Result.Content[0].Text), &norm); err != nil {
		t.Fatal(err)
	}
	if norm.Key != "cote-d'or" || norm.Canonical != "Côte-d'Or" {
		t.Errorf("normalize = %+v", norm)
	}

	res = callTool(t, srv, "coverage_stats", map[string]any{"level": "region", "name": "BRETAGNE"})
	var stats struct {
		NoData bool     `json:"no_data"`
		Years  []string `json:"years"`
	}
	if err := json.Unmarshal([]byte(res.Result.Content[0].Text), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.NoData || len(stats.Years) != 2 {
		t.Errorf("stats = %+v", stats)
	}

	res = callTool(t, srv, "coverage_stats", map[string]any{"level": "commune"})
	if !res.Result.IsError {
		t.Error("unknown level should be a tool error")
	}

	res = callTool(t, srv, "department_info", map[string]any{"code": "2a"})
	var info departmentInfo
	if err := json.Unmarshal([]byte(res.Result.Content[0].Text), &info); err != nil {
		t.Fatal(err)
	}
	if info.Code != "2A" || info.Region != "Corse" {
		t.Errorf("department_info = %+v", info)
	}

	res = callTool(t, srv, "list_departments", map[string]any{"region": "Corse"})
	var list departmentsResponse
	if err := json.Unmarshal([]byte(res.Result.Content[0].Text), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Departments) != 2 {
		t.Errorf("Corse departments = %d, want 2", len(list.Departments))
	}
}
