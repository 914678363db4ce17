package utils

import (
	"reflect"
	"testing"

	"botfarm/pkg/models"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0m"},
		{-3, "0m"},
		{59, "0m"},
		{125, "2m"},
		{3600, "1h 0m"},
		{3725.9, "1h 2m"},
		{90061, "25h 1m"},
	}
	for _, tt := range tests {
		if got := FormatUptime(tt.seconds); got != tt.want {
			t.Errorf("FormatUptime(%v)=%q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestLoginRatio(t *testing.T) {
	got := LoginRatio(models.FarmStats{GoogleLoginsSuccessful: 3, GoogleLoginsFailed: 2})
	if got != "3/5" {
		t.Fatalf("LoginRatio=%q, want 3/5", got)
	}
}

func TestSessionMinutes(t *testing.T) {
	if got := SessionMinutes(185); got != "3m" {
		t.Fatalf("SessionMinutes(185)=%q, want 3m", got)
	}
	if got := SessionMinutes(-1); got != "0m" {
		t.Fatalf("SessionMinutes(-1)=%q, want 0m", got)
	}
}

func TestTaskLabel(t *testing.T) {
	if got := TaskLabel(models.DeviceStatus{}); got != "Idle" {
		t.Errorf("TaskLabel(idle)=%q", got)
	}
	busy := models.DeviceStatus{CurrentTask: &models.CurrentTask{Type: "enhanced_search"}}
	if got := TaskLabel(busy); got != "enhanced_search" {
		t.Errorf("TaskLabel(busy)=%q", got)
	}
}

func TestSortedIDs(t *testing.T) {
	m := map[string]models.DeviceStatus{"device_3": {}, "device_1": {}, "device_2": {}}
	want := []string{"device_1", "device_2", "device_3"}
	if got := SortedIDs(m); !reflect.DeepEqual(got, want) {
		t.Fatalf("SortedIDs=%v, want %v", got, want)
	}
}
