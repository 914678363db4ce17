package utils

import (
	"fmt"
	"sort"

	"botfarm/pkg/models"
	"github.com/samber/lo"
)

// FormatUptime renders seconds as "Hh Mm", or "Mm" under an hour.
func FormatUptime(seconds float64) string {
	if seconds <= 0 {
		return "0m"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// LoginRatio renders successful logins over all login attempts.
func LoginRatio(stats models.FarmStats) string {
	total := stats.GoogleLoginsSuccessful + stats.GoogleLoginsFailed
	return fmt.Sprintf("%d/%d", stats.GoogleLoginsSuccessful, total)
}

// SessionMinutes renders a session duration in whole minutes.
func SessionMinutes(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm", int(seconds/60))
}

// TaskLabel is the current task type of a device, or "Idle".
func TaskLabel(status models.DeviceStatus) string {
	if status.CurrentTask == nil || status.CurrentTask.Type == "" {
		return "Idle"
	}
	return status.CurrentTask.Type
}

// SortedIDs returns the keys of m in ascending order.
func SortedIDs[V any](m map[string]V) []string {
	ids := lo.Keys(m)
	sort.Strings(ids)
	return ids
}
