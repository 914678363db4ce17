package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"botfarm/internal/activity"
	"botfarm/internal/controller"
	"botfarm/internal/farm"
	"botfarm/internal/state"
	"botfarm/pkg/models"
)

type backend struct {
	mu       sync.Mutex
	starts   int
	deleted  []string
	startMsg string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reply := map[string]interface{}{"status": "success"}
	switch r.URL.Path {
	case "/api/farm/start":
		b.starts++
		if b.startMsg != "" {
			w.WriteHeader(http.StatusBadRequest)
			reply = map[string]interface{}{"status": "error", "message": b.startMsg}
		}
	case "/api/farm/stats":
		reply["data"] = models.FarmStats{IsRunning: true, Uptime: 3725, TotalDevices: 2, GoogleLoginsSuccessful: 1, GoogleLoginsFailed: 1}
	case "/api/devices":
		reply["data"] = map[string]models.DeviceStatus{
			"device_2": {DeviceID: "device_2", SessionDuration: 120},
			"device_1": {DeviceID: "device_1", IsActive: true, CurrentTask: &models.CurrentTask{Type: "website_visit"}},
		}
	default:
		if strings.HasPrefix(r.URL.Path, "/api/profiles/delete/") {
			b.deleted = append(b.deleted, strings.TrimPrefix(r.URL.Path, "/api/profiles/delete/"))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

func newDashboard(t *testing.T, be *backend) http.Handler {
	t.Helper()

	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	store, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("state.Open err=%v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctrl := controller.New(farm.NewClient(srv.URL, 5*time.Second), store, activity.New(nil), controller.Options{
		RetryDelay:      time.Millisecond,
		StatsInterval:   time.Hour,
		DevicesInterval: time.Hour,
	})
	t.Cleanup(ctrl.Close)

	handler, err := NewServer(ctrl, 0, 5*time.Second).Handler()
	if err != nil {
		t.Fatalf("Handler err=%v", err)
	}
	return handler
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (int, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: response not JSON: %q", method, path, rec.Body.String())
	}
	return rec.Code, resp
}

func traffic() models.ScenarioConfig {
	return models.ScenarioConfig{
		Type:            models.ScenarioTraffic,
		URLs:            []string{"https://example.com"},
		Duration:        60,
		PagesPerSession: 3,
	}
}

func TestScenario_SaveAndGet(t *testing.T) {
	h := newDashboard(t, &backend{})

	code, resp := do(t, h, http.MethodGet, "/api/scenario", nil)
	if code != http.StatusOK || resp.Data != nil {
		t.Fatalf("GET before save code=%d data=%v", code, resp.Data)
	}

	code, resp = do(t, h, http.MethodPost, "/api/scenario", traffic())
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("POST code=%d resp=%+v", code, resp)
	}

	_, resp = do(t, h, http.MethodGet, "/api/scenario", nil)
	data, _ := resp.Data.(map[string]interface{})
	if data["type"] != "traffic" {
		t.Fatalf("GET data=%v, want traffic scenario", resp.Data)
	}

	if code, _ := do(t, h, http.MethodDelete, "/api/scenario", nil); code != http.StatusOK {
		t.Fatalf("DELETE code=%d", code)
	}
	if _, resp = do(t, h, http.MethodGet, "/api/scenario", nil); resp.Data != nil {
		t.Fatalf("GET after DELETE data=%v, want nil", resp.Data)
	}
}

func TestScenario_ValidationIsBadRequest(t *testing.T) {
	h := newDashboard(t, &backend{})

	code, resp := do(t, h, http.MethodPost, "/api/scenario", models.ScenarioConfig{Type: models.ScenarioYouTube})
	if code != http.StatusBadRequest || resp.Success || resp.Error == "" {
		t.Fatalf("code=%d resp=%+v, want 400 with message", code, resp)
	}
}

func TestPreset(t *testing.T) {
	h := newDashboard(t, &backend{})

	code, resp := do(t, h, http.MethodGet, "/api/scenario/preset?type=search", nil)
	if code != http.StatusOK {
		t.Fatalf("code=%d resp=%+v", code, resp)
	}
	if code, _ := do(t, h, http.MethodGet, "/api/scenario/preset?type=bogus", nil); code != http.StatusBadRequest {
		t.Fatalf("unknown preset code=%d, want 400", code)
	}
}

func TestStart_WithoutScenario(t *testing.T) {
	be := &backend{}
	h := newDashboard(t, be)

	code, resp := do(t, h, http.MethodPost, "/api/farm/start", AccountsRequest{Accounts: "a@example.com:pw"})
	if code != http.StatusBadRequest || resp.Error != controller.ErrNoScenario.Error() {
		t.Fatalf("code=%d resp=%+v", code, resp)
	}
	if be.starts != 0 {
		t.Fatalf("backend start called")
	}
}

func TestStart_BackendMessageVerbatim(t *testing.T) {
	be := &backend{startMsg: "Farm is already running"}
	h := newDashboard(t, be)

	do(t, h, http.MethodPost, "/api/scenario", traffic())
	code, resp := do(t, h, http.MethodPost, "/api/farm/start", AccountsRequest{Accounts: "a@example.com:pw"})
	if code != http.StatusBadGateway || resp.Error != "Farm is already running" {
		t.Fatalf("code=%d resp=%+v", code, resp)
	}
	if be.starts != 2 {
		t.Fatalf("backend starts=%d, want 2 (one retry)", be.starts)
	}
}

func TestStats_Formatted(t *testing.T) {
	h := newDashboard(t, &backend{})

	code, resp := do(t, h, http.MethodGet, "/api/stats", nil)
	if code != http.StatusOK {
		t.Fatalf("code=%d resp=%+v", code, resp)
	}
	data := resp.Data.(map[string]interface{})
	if data["uptime"] != "1h 2m" || data["logins"] != "1/2" {
		t.Fatalf("data=%v", data)
	}
}

func TestDevices_SortedRows(t *testing.T) {
	h := newDashboard(t, &backend{})

	_, resp := do(t, h, http.MethodGet, "/api/devices", nil)
	rows, ok := resp.Data.([]interface{})
	if !ok || len(rows) != 2 {
		t.Fatalf("data=%v", resp.Data)
	}
	first := rows[0].(map[string]interface{})
	second := rows[1].(map[string]interface{})
	if first["device_id"] != "device_1" || first["task"] != "website_visit" {
		t.Errorf("first row=%v", first)
	}
	if second["task"] != "Idle" || second["session"] != "2m" {
		t.Errorf("second row=%v", second)
	}
}

func TestLog_Since(t *testing.T) {
	h := newDashboard(t, &backend{})

	do(t, h, http.MethodPost, "/api/scenario", traffic())
	_, resp := do(t, h, http.MethodGet, "/api/log", nil)
	data := resp.Data.(map[string]interface{})
	next := int(data["next"].(float64))
	if next == 0 {
		t.Fatalf("no log entries after save")
	}

	_, resp = do(t, h, http.MethodGet, "/api/log?since="+strconv.Itoa(next), nil)
	data = resp.Data.(map[string]interface{})
	if entries, _ := data["entries"].([]interface{}); len(entries) != 0 {
		t.Fatalf("entries since %d=%v, want none", next, entries)
	}
}

func TestKeywords(t *testing.T) {
	h := newDashboard(t, &backend{})

	_, resp := do(t, h, http.MethodGet, "/api/keywords?category=news&count=4", nil)
	data := resp.Data.(map[string]interface{})
	if kw, _ := data["keywords"].([]interface{}); len(kw) != 4 || data["category"] != "news" {
		t.Fatalf("data=%v", data)
	}
}

func TestDeleteProfile(t *testing.T) {
	be := &backend{}
	h := newDashboard(t, be)

	code, resp := do(t, h, http.MethodDelete, "/api/profiles/device_2", nil)
	if code != http.StatusOK || !resp.Success {
		t.Fatalf("code=%d resp=%+v", code, resp)
	}
	if len(be.deleted) != 1 || be.deleted[0] != "device_2" {
		t.Fatalf("deleted=%v", be.deleted)
	}

	if code, _ := do(t, h, http.MethodGet, "/api/profiles/device_2", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("GET profile code=%d, want 405", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newDashboard(t, &backend{})

	req := httptest.NewRequest(http.MethodOptions, "/api/farm/start", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight code=%d headers=%v", rec.Code, rec.Header())
	}
}
