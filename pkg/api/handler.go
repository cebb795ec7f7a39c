package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hazyhaar/vaxatlas/pkg/atlas"
	"github.com/hazyhaar/vaxatlas/pkg/coverage"
	"github.com/hazyhaar/vaxatlas/pkg/importer"
	"github.com/hazyhaar/vaxatlas/pkg/kit"
	"github.com/hazyhaar/vaxatlas/pkg/metrics"
	"github.com/hazyhaar/vaxatlas/pkg/selection"
)

// ImportLedger lists what the importer last fetched for each source.
type ImportLedger interface {
	Entries() ([]importer.Entry, error)
}

// Option configures NewRouter.
type Option func(*routerOptions)

type routerOptions struct {
	imports ImportLedger
}

// WithImports adds the import ledger to /v1/health.
func WithImports(l ImportLedger) Option {
	return func(o *routerOptions) { o.imports = l }
}

// NewRouter returns an http.Handler with all vaxatlas API routes.
func NewRouter(a *atlas.Atlas, sessions *selection.Store, logger *slog.Logger, opts ...Option) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.Logging(logger, name), kit.Instrument(name))(ep)
	}

	h := &handler{
		atlas:         a,
		normalize:     wrap("normalize_name", normalizeEndpoint()),
		department:    wrap("department_info", departmentEndpoint(a)),
		departments:   wrap("list_departments", listDepartmentsEndpoint(a)),
		stats:         wrap("coverage_stats", statsEndpoint(a)),
		createSession: wrap("create_session", createSessionEndpoint(a, sessions)),
		getSession:    wrap("get_session", getSessionEndpoint(a, sessions)),
		sessionAction: wrap("session_action", sessionActionEndpoint(a, sessions)),
		deleteSession: wrap("delete_session", deleteSessionEndpoint(sessions)),
		health:        wrap("health", healthEndpoint(a, sessions, o.imports)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.HandleFunc("GET /v1/normalize", h.handleNormalize)
	mux.HandleFunc("GET /v1/regions", h.handleRegions)
	mux.HandleFunc("GET /v1/regions/{region}/departments", h.handleRegionDepartments)
	mux.HandleFunc("GET /v1/departments", h.handleListDepartments)
	mux.HandleFunc("GET /v1/departments/{code}", h.handleDepartment)
	mux.HandleFunc("GET /v1/stats/nation", h.handleNationStats)
	mux.HandleFunc("GET /v1/stats/regions/{region}", h.handleRegionStats)
	mux.HandleFunc("GET /v1/stats/departments/{code}", h.handleDepartmentStats)
	mux.HandleFunc("POST /v1/sessions", h.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", h.handleGetSession)
	mux.HandleFunc("POST /v1/sessions/{id}/actions", h.handleSessionAction)
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.handleDeleteSession)
	mux.Handle("GET /metrics", metrics.Handler())

	return accessLog(logger, requestID(cors(mux)))
}

type handler struct {
	atlas         *atlas.Atlas
	normalize     kit.Endpoint
	department    kit.Endpoint
	departments   kit.Endpoint
	stats         kit.Endpoint
	createSession kit.Endpoint
	getSession    kit.Endpoint
	sessionAction kit.Endpoint
	deleteSession kit.Endpoint
	health        kit.Endpoint
}

// --- names ---

func (h *handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("name") == "" {
		writeError(w, http.StatusBadRequest, "missing name")
		return
	}
	h.serve(w, r, h.normalize, &normalizeReq{Name: q.Get("name"), Kind: q.Get("kind")}, http.StatusBadRequest)
}

// --- polygons ---

func (h *handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.atlas.Index().RegionFeatures())
}

func (h *handler) handleRegionDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.atlas.RegionDepartments(r.PathValue("region")))
}

func (h *handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.departments, &listDepartmentsReq{Region: r.URL.Query().Get("region")}, http.StatusBadRequest)
}

func (h *handler) handleDepartment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.department, &departmentReq{Code: r.PathValue("code")}, http.StatusBadRequest)
}

// --- stats ---

func (h *handler) handleNationStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, coverage.NationTarget())
}

func (h *handler) handleRegionStats(w http.ResponseWriter, r *http.Request) {
	t := coverage.RegionTarget(r.PathValue("region"))
	t.Code = r.URL.Query().Get("code")
	h.serveStats(w, r, t)
}

func (h *handler) handleDepartmentStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, coverage.DepartmentTarget(r.PathValue("code"), r.URL.Query().Get("name")))
}

func (h *handler) serveStats(w http.ResponseWriter, r *http.Request, t coverage.Target) {
	req := &statsReq{Target: t, Indicators: splitList(r.URL.Query().Get("indicators"))}
	h.serve(w, r, h.stats, req, http.StatusInternalServerError)
}

// --- sessions ---

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.createSession(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := kit.WithSessionID(r.Context(), r.PathValue("id"))
	h.serve(w, r.WithContext(ctx), h.getSession, &sessionReq{ID: r.PathValue("id")}, http.StatusBadRequest)
}

func (h *handler) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16*1024)
	var action selection.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ctx := kit.WithSessionID(r.Context(), r.PathValue("id"))
	h.serve(w, r.WithContext(ctx), h.sessionAction, &sessionReq{ID: r.PathValue("id"), Action: &action}, http.StatusBadRequest)
}

func (h *handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := kit.WithSessionID(r.Context(), r.PathValue("id"))
	h.serve(w, r.WithContext(ctx), h.deleteSession, &sessionReq{ID: r.PathValue("id")}, http.StatusBadRequest)
}

// --- health ---

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.health, nil, http.StatusInternalServerError)
}

// --- helpers ---

// serve runs ep and writes its response. failCode is used for errors that
// carry no more specific status.
func (h *handler) serve(w http.ResponseWriter, r *http.Request, ep kit.Endpoint, req any, failCode int) {
	resp, err := ep(r.Context(), req)
	if err != nil {
		writeError(w, statusOf(err, failCode), err.Error())
		return
	}
	if raw, ok := resp.(json.RawMessage); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(raw)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, selection.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, selection.ErrOutsideRegion), errors.Is(err, selection.ErrNoRegion):
		return http.StatusConflict
	default:
		return fallback
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID tags every request with an X-Request-ID, reusing the client's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithRequestID(kit.WithTransport(r.Context(), "http"), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog logs one Debug line per request.
func accessLog(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		logger.Debug("http access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}
