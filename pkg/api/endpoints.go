package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/geo"
	"github.com/hazyhaar/vaxatlas/pkg/importer"
	"github.com/hazyhaar/vaxatlas/pkg/kit"
	"github.com/hazyhaar/vaxatlas/pkg/selection"
)

// Shared request/response types used by both HTTP and MCP transports.

type normalizeReq struct {
	Name string
	Kind string
}

type normalizeResponse struct {
	Input       string   `json:"input"`
	Kind        string   `json:"kind"`
	Key         string   `json:"key"`
	Canonical   string   `json:"canonical,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type departmentReq struct {
	Code string
}

type departmentInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Region      string `json:"region,omitempty"`
	Known       bool   `json:"known"`
	HasPolygon  bool   `json:"has_polygon"`
	PolygonName string `json:"polygon_name,omitempty"`
}

type listDepartmentsReq struct {
	Region string
}

type departmentsResponse struct {
	Region      string           `json:"region,omitempty"`
	Departments []departmentInfo `json:"departments"`
}

type statsReq struct {
	Target     coverage.Target
	Indicators []string
}

type sessionReq struct {
	ID     string
	Action *selection.Action
}

type sessionResponse struct {
	ID   string      `json:"id"`
	View *atlas.View `json:"view"`
}

type healthResponse struct {
	Status   string               `json:"status"`
	Sessions int                  `json:"sessions"`
	Sources  []atlas.SourceStatus `json:"sources"`
	Unmapped []string             `json:"unmapped_departments,omitempty"`
	Imports  []importer.Entry     `json:"imports,omitempty"`
}

func normalizeEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*normalizeReq)
		kind := geo.KindRegion
		if req.Kind != "" {
			k, ok := geo.ParseKind(req.Kind)
			if !ok {
				return nil, fmt.Errorf("unknown kind %q (want region or department)", req.Kind)
			}
			kind = k
		}
		resp := normalizeResponse{Input: req.Name, Kind: kind.String(), Key: geo.Normalize(req.Name, kind)}
		if kind == geo.KindRegion {
			resp.Canonical, _ = geo.CanonicalRegion(req.Name)
		} else {
			for _, code := range geo.DepartmentCodes() {
				if n, _ := geo.NameOf(code); geo.SameName(n, req.Name, geo.KindDepartment) {
					resp.Canonical = n
					break
				}
			}
		}
		if resp.Canonical == "" {
			resp.Suggestions = geo.Suggest(req.Name, kind, 3)
		}
		return resp, nil
	}
}

func describeDepartment(a *atlas.Atlas, code string) departmentInfo {
	code = geo.PadCode(code)
	info := departmentInfo{Code: code, Name: geo.DisplayName(code)}
	_, info.Known = geo.NameOf(code)
	info.Region, _ = geo.RegionOf(code)
	if f, ok := a.Index().Department(code); ok {
		info.HasPolygon = true
		info.PolygonName = f.Name()
	}
	return info
}

func departmentEndpoint(a *atlas.Atlas) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*departmentReq)
		if strings.TrimSpace(req.Code) == "" {
			return nil, fmt.Errorf("missing department code")
		}
		return describeDepartment(a, req.Code), nil
	}
}

func listDepartmentsEndpoint(a *atlas.Atlas) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*listDepartmentsReq)
		resp := departmentsResponse{Departments: []departmentInfo{}}
		if req.Region != "" {
			name, ok := geo.CanonicalRegion(req.Region)
			if !ok {
				return nil, fmt.Errorf("unknown region %q", req.Region)
			}
			resp.Region = name
		}
		for _, code := range geo.DepartmentCodes() {
			if r, _ := geo.RegionOf(code); resp.Region != "" && r != resp.Region {
				continue
			}
			resp.Departments = append(resp.Departments, describeDepartment(a, code))
		}
		return resp, nil
	}
}

func statsEndpoint(a *atlas.Atlas) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*statsReq)
		b, err := a.StatsJSON(ctx, req.Target, req.Indicators)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}
}

func createSessionEndpoint(a *atlas.Atlas, store *selection.Store) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		id, snap := store.Create()
		return sessionResponse{ID: id, View: a.View(snap)}, nil
	}
}

func getSessionEndpoint(a *atlas.Atlas, store *selection.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*sessionReq)
		snap, err := store.Get(req.ID)
		if err != nil {
			return nil, err
		}
		return sessionResponse{ID: req.ID, View: a.View(snap)}, nil
	}
}

func sessionActionEndpoint(a *atlas.Atlas, store *selection.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*sessionReq)
		if req.Action == nil {
			return nil, fmt.Errorf("missing action")
		}
		snap, err := store.Update(req.ID, func(s *selection.State) error { return s.Apply(*req.Action) })
		if err != nil {
			return nil, err
		}
		return sessionResponse{ID: req.ID, View: a.View(snap)}, nil
	}
}

func deleteSessionEndpoint(store *selection.Store) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*sessionReq)
		if _, err := store.Get(req.ID); err != nil {
			return nil, err
		}
		store.Delete(req.ID)
		return map[string]string{"deleted": req.ID}, nil
	}
}

// healthEndpoint reports load state. A ledger read error is logged and does
// not fail the health check.
func healthEndpoint(a *atlas.Atlas, store *selection.Store, imports ImportLedger) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		resp := healthResponse{
			Status:   "ok",
			Sessions: store.Len(),
			Sources:  a.Status(),
			Unmapped: a.Index().Unmapped(),
		}
		if !a.Ready() {
			resp.Status = "loading"
		}
		if imports != nil {
			entries, err := imports.Entries()
			if err != nil {
				slog.WarnContext(ctx, "health: import ledger", "error", err)
			}
			resp.Imports = entries
		}
		return resp, nil
	}
}

// splitList parses "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
