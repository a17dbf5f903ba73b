package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cleanops/internal/audit"
	"cleanops/internal/auth"
	"cleanops/internal/observability/metrics"
	snapshotapp "cleanops/internal/settlement/application"
	settlement "cleanops/internal/settlement/domain"
)

// SnapshotHandler serves the settlement snapshot APIs.
type SnapshotHandler struct {
	service     *snapshotapp.SnapshotService
	auditLogger audit.Logger
	now         func() time.Time
}

// NewSnapshotHandler constructs a handler.
func NewSnapshotHandler(service *snapshotapp.SnapshotService, auditLogger audit.Logger) (*SnapshotHandler, error) {
	if service == nil {
		return nil, errors.New("snapshot handler: nil service")
	}
	return &SnapshotHandler{
		service:     service,
		auditLogger: auditLogger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// ServeHTTP handles routes under /api/v1/settlement/snapshot.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Path
	if path == "/api/v1/settlement/snapshot" {
		h.handleSnapshot(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/settlement/snapshot/export.") {
		format := strings.TrimPrefix(path, "/api/v1/settlement/snapshot/export.")
		h.handleExport(w, r, format)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *SnapshotHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.buildSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
	h.logAudit(r, snapshot, "settlement.snapshot", map[string]any{"month": snapshot.Month})
}

func (h *SnapshotHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSnapshotExport(format, result, time.Since(start))
	}()

	snapshot, ok := h.buildSnapshot(w, r)
	if !ok {
		result = metrics.ResultError
		return
	}

	var data []byte
	var contentType string
	var err error
	switch format {
	case "xlsx":
		data, err = BuildSnapshotXLSX(snapshot)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = BuildSnapshotPDF(snapshot)
		contentType = "application/pdf"
	case "csv":
		data, err = BuildSnapshotCSV(snapshot)
		contentType = "text/csv"
	default:
		result = metrics.ResultError
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, snapshot, "settlement.export", map[string]any{"month": snapshot.Month, "format": format})
}

// buildSnapshot resolves the query from request and identity, runs the
// service and writes the error response itself when the build fails.
func (h *SnapshotHandler) buildSnapshot(w http.ResponseWriter, r *http.Request) (*settlement.Snapshot, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		// The engine requires an explicit month; "current month" is a
		// boundary decision, made here.
		month = h.now().Format("2006-01")
	}

	var hostID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("host_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, settlement.ErrInvalidHostFilter.Error(), http.StatusBadRequest)
			return nil, false
		}
		hostID = parsed
	}

	roles := auth.RolesFromContext(r.Context())
	actorRoles := make([]string, 0, len(roles))
	for _, role := range roles {
		actorRoles = append(actorRoles, string(role))
	}

	snapshot, err := h.service.Build(r.Context(), snapshotapp.SnapshotQuery{
		Month:      month,
		HostID:     hostID,
		ActorRoles: actorRoles,
		RegisterNo: auth.RegisterNoFromContext(r.Context()),
	})
	if err != nil {
		if errors.Is(err, settlement.ErrInvalidMonth) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return snapshot, true
}

func (h *SnapshotHandler) logAudit(r *http.Request, snapshot *settlement.Snapshot, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	roles := auth.RolesFromContext(r.Context())
	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role))
	}
	var hostID int64
	if snapshot.AppliedHostID != nil {
		hostID = *snapshot.AppliedHostID
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Roles:        strings.Join(roleNames, ","),
		Action:       action,
		ResourceType: "settlement_snapshot",
		ResourceID:   snapshot.Month,
		HostID:       hostID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}
