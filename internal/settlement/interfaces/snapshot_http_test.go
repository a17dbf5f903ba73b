package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cleanops/internal/audit"
	"cleanops/internal/auth"
	settlementapp "cleanops/internal/settlement/application"
	settlement "cleanops/internal/settlement/domain"
	"cleanops/internal/settlement/infrastructure/memory"
)

type auditRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *auditRecorder) Log(ctx context.Context, entry audit.Entry) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *auditRecorder) all() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func fixtureHandler(t *testing.T) (*SnapshotHandler, *auditRecorder) {
	t.Helper()
	src := memory.NewDataSource()
	src.AddHosts(settlement.Host{ID: 1, Name: "Alpha Stay", RegisterNo: "123456"})
	src.AddRooms(settlement.Room{
		ID: 10, HostID: 1, Label: "A101", BedCount: 2,
		CheckoutTime: "11:00", CheckinTime: "15:00",
		RuleSetID: 5, StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	src.AddRules(settlement.PriceRule{
		ID: 1, RuleSetID: 5, Seq: 1, Kind: settlement.KindFlatPerCleaning, Title: "Cleaning", Amount: 50000,
	})
	src.AddWorkEvents(settlement.WorkEvent{
		ID: 100, RoomID: 10, Date: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
	})

	svc, err := settlementapp.NewSnapshotService(src, nil, settlement.DefaultCapabilities(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	recorder := &auditRecorder{}
	handler, err := NewSnapshotHandler(svc, recorder)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler, recorder
}

func adminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := auth.WithIdentity(req.Context(), []auth.Role{auth.RoleAdmin}, "user-1", "")
	return req.WithContext(ctx)
}

func TestSnapshotHandler_JSON(t *testing.T) {
	handler, recorder := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot?month=2025-06"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %s", got)
	}

	var snapshot settlement.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snapshot.Month != "2025-06" {
		t.Fatalf("expected month 2025-06, got %s", snapshot.Month)
	}
	if len(snapshot.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(snapshot.Statements))
	}

	entries := recorder.all()
	if len(entries) != 1 || entries[0].Action != "settlement.snapshot" {
		t.Fatalf("expected one snapshot audit entry, got %+v", entries)
	}
}

func TestSnapshotHandler_MonthDefaultsToCurrent(t *testing.T) {
	handler, _ := fixtureHandler(t)
	handler.now = func() time.Time { return time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC) }

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var snapshot settlement.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snapshot.Month != "2025-06" {
		t.Fatalf("expected defaulted month 2025-06, got %s", snapshot.Month)
	}
}

func TestSnapshotHandler_InvalidMonth(t *testing.T) {
	handler, recorder := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot?month=2025-13"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(recorder.all()) != 0 {
		t.Fatalf("expected no audit entries for failed builds")
	}
}

func TestSnapshotHandler_InvalidHostID(t *testing.T) {
	handler, _ := fixtureHandler(t)

	for _, raw := range []string{"abc", "-1", "1.5"} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot?month=2025-06&host_id="+raw))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for host_id=%q, got %d", raw, resp.Code)
		}
	}
}

func TestSnapshotHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodPost, "/api/v1/settlement/snapshot"))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestSnapshotHandler_ExportCSV(t *testing.T) {
	handler, recorder := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot/export.csv?month=2025-06"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv, got %s", got)
	}
	body := resp.Body.String()
	if !strings.HasPrefix(body, "month,host,date,room,item,") {
		t.Fatalf("unexpected csv header: %s", body)
	}
	if !strings.Contains(body, "Alpha Stay") || !strings.Contains(body, "A101 Cleaning") {
		t.Fatalf("expected line data in csv, got %s", body)
	}

	entries := recorder.all()
	if len(entries) != 1 || entries[0].Action != "settlement.export" {
		t.Fatalf("expected export audit entry, got %+v", entries)
	}
}

func TestSnapshotHandler_ExportXLSX(t *testing.T) {
	handler, _ := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot/export.xlsx?month=2025-06"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if resp.Body.Len() == 0 {
		t.Fatalf("expected workbook bytes")
	}
}

func TestSnapshotHandler_ExportPDF(t *testing.T) {
	handler, _ := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot/export.pdf?month=2025-06"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("expected pdf magic bytes")
	}
}

func TestSnapshotHandler_UnknownExportFormat(t *testing.T) {
	handler, _ := fixtureHandler(t)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, adminRequest(http.MethodGet, "/api/v1/settlement/snapshot/export.docx?month=2025-06"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
