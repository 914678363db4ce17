package farm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"botfarm/pkg/models"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestStartFarm_SendsDevicesAndTasks(t *testing.T) {
	var got map[string]json.RawMessage
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/farm/start" {
			t.Errorf("request=%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type=%q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body not JSON: %v", err)
		}
		writeJSON(w, map[string]string{"status": "success", "message": "Bot farm started successfully"})
	})

	req := models.StartRequest{
		Devices: []models.Device{{ID: "device_1", Type: models.DeviceDesktop}},
		Tasks: models.TaskList{Tasks: []models.Task{
			models.TrafficTask{ID: "task_1", Type: "website_visit", DeviceID: "device_1"},
		}},
	}
	if err := client.StartFarm(context.Background(), req); err != nil {
		t.Fatalf("StartFarm err=%v", err)
	}

	if _, ok := got["devices"]; !ok {
		t.Fatalf("devices missing from body: %v", got)
	}
	var tasks models.TaskList
	if err := json.Unmarshal(got["tasks"], &tasks); err != nil {
		t.Fatalf("tasks not a task list: %v", err)
	}
	if len(tasks.Tasks) != 1 || tasks.Tasks[0].TaskDevice() != "device_1" {
		t.Fatalf("tasks=%s", got["tasks"])
	}
}

func TestCall_ErrorMessageVerbatim(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "error", "message": "Farm is already running"})
	})

	err := client.StartFarm(context.Background(), models.StartRequest{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v, want *APIError", err)
	}
	if apiErr.Error() != "Farm is already running" {
		t.Fatalf("message=%q", apiErr.Error())
	}
}

func TestCall_HTTPErrorWithoutBody(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := client.StopFarm(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status=%d", apiErr.StatusCode)
	}
}

func TestCall_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Stats(context.Background())
	if err == nil {
		t.Fatalf("Stats err=nil, want transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure reported as APIError: %v", err)
	}
}

func TestStatsAndDevices(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/farm/stats":
			writeJSON(w, map[string]interface{}{
				"status": "success",
				"data": map[string]interface{}{
					"is_running": true, "uptime": 3725, "active_devices": 2, "total_devices": 3,
					"total_tasks_completed": 9, "google_logins_successful": 2, "google_logins_failed": 1,
				},
			})
		case "/api/devices":
			writeJSON(w, map[string]interface{}{
				"status": "success",
				"data": map[string]interface{}{
					"device_1": map[string]interface{}{
						"device_id": "device_1", "is_active": true, "google_login_success": true,
						"current_task": map[string]string{"type": "youtube"}, "session_duration": 120.5,
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats err=%v", err)
	}
	if !stats.IsRunning || stats.Uptime != 3725 || stats.TotalTasksCompleted != 9 || stats.GoogleLoginsFailed != 1 {
		t.Fatalf("stats=%+v", stats)
	}

	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices err=%v", err)
	}
	d, ok := devices["device_1"]
	if !ok || !d.IsActive || d.CurrentTask == nil || d.CurrentTask.Type != "youtube" {
		t.Fatalf("devices=%+v", devices)
	}
}

func TestProfiles(t *testing.T) {
	var imported map[string]json.RawMessage
	var deletedPath string

	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/profiles/list":
			writeJSON(w, map[string]interface{}{
				"status": "success",
				"data": map[string]interface{}{
					"device_1": map[string]interface{}{"google_logged_in": true, "google_email": "a@b.com", "last_login": 1700000000},
				},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/profiles/export/device_1":
			writeJSON(w, map[string]interface{}{
				"status": "success",
				"data":   map[string]interface{}{"device_id": "device_1", "data": "UEsDBA=="},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/profiles/import":
			_ = json.NewDecoder(r.Body).Decode(&imported)
			writeJSON(w, map[string]string{"status": "success"})
		case r.Method == http.MethodDelete:
			deletedPath = r.URL.Path
			writeJSON(w, map[string]string{"status": "error", "message": "Profile not found"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	profiles, err := client.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles err=%v", err)
	}
	if p := profiles["device_1"]; !p.GoogleLoggedIn || p.GoogleEmail != "a@b.com" {
		t.Fatalf("profiles=%+v", profiles)
	}

	blob, err := client.ExportProfile(ctx, "device_1")
	if err != nil {
		t.Fatalf("ExportProfile err=%v", err)
	}
	if blob.Data != "UEsDBA==" {
		t.Fatalf("blob=%+v", blob)
	}

	if err := client.ImportProfile(ctx, "device_2", json.RawMessage(`"UEsDBA=="`)); err != nil {
		t.Fatalf("ImportProfile err=%v", err)
	}
	if string(imported["device_id"]) != `"device_2"` || string(imported["profile_data"]) != `"UEsDBA=="` {
		t.Fatalf("import body=%v", imported)
	}

	err = client.DeleteProfile(ctx, "device_9")
	if err == nil || err.Error() != "Profile not found" {
		t.Fatalf("DeleteProfile err=%v", err)
	}
	if deletedPath != "/api/profiles/delete/device_9" {
		t.Fatalf("delete path=%s", deletedPath)
	}
}

func TestHealthAndWaitForConnection(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"status": "healthy", "farm_manager_initialized": true})
	})

	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health err=%v", err)
	}
	if health.Status != "healthy" || !health.FarmManagerInitialized {
		t.Fatalf("health=%+v", health)
	}

	if err := client.WaitForConnection(context.Background(), 1); err != nil {
		t.Fatalf("WaitForConnection err=%v", err)
	}
}
