package models

import "encoding/json"

type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
)

type Device struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Type               DeviceType `json:"type"`
	Headless           bool       `json:"headless"`
	ProxyEnabled       bool       `json:"proxy_enabled"`
	MaxSessionDuration int        `json:"max_session_duration"`
	SaveSession        bool       `json:"save_session"`
}

// Task is one unit of work bound to a device.
type Task interface {
	TaskType() string
	TaskDevice() string
}

type TaskList struct {
	Tasks []Task `json:"tasks"`
}

func (l *TaskList) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tasks []RawTask `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Tasks = make([]Task, 0, len(raw.Tasks))
	for _, t := range raw.Tasks {
		l.Tasks = append(l.Tasks, t)
	}
	return nil
}

type YouTubeTask struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	DeviceID      string `json:"device_id"`
	VideoURL      string `json:"video_url"`
	WatchTimeMin  int    `json:"watch_time_min"`
	WatchTimeMax  int    `json:"watch_time_max"`
	AutoLike      bool   `json:"auto_like"`
	AutoSubscribe bool   `json:"auto_subscribe"`
	Priority      string `json:"priority"`
}

func (t YouTubeTask) TaskType() string   { return t.Type }
func (t YouTubeTask) TaskDevice() string { return t.DeviceID }

type TrafficTask struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	DeviceID        string   `json:"device_id"`
	URLs            []string `json:"urls"`
	VisitDuration   int      `json:"visit_duration"`
	PagesPerSession int      `json:"pages_per_session"`
	RandomClick     bool     `json:"random_click"`
	RandomScroll    bool     `json:"random_scroll"`
	Priority        string   `json:"priority"`
}

func (t TrafficTask) TaskType() string   { return t.Type }
func (t TrafficTask) TaskDevice() string { return t.DeviceID }

type SearchTask struct {
	ID                string           `json:"id"`
	Type              string           `json:"type"`
	DeviceID          string           `json:"device_id"`
	Engine            string           `json:"engine"`
	Keywords          []string         `json:"keywords"`
	TargetURLs        []string         `json:"target_urls"`
	SearchesPerDevice int              `json:"searches_per_device"`
	MinResultClicks   int              `json:"min_result_clicks"`
	MaxResultClicks   int              `json:"max_result_clicks"`
	Behavior          DeviceBehavior   `json:"behavior"`
	Priority          string           `json:"priority"`
	SessionVariation  SessionVariation `json:"session_variation"`
}

func (t SearchTask) TaskType() string   { return t.Type }
func (t SearchTask) TaskDevice() string { return t.DeviceID }

type DeviceBehavior struct {
	MinReadTime      int    `json:"min_read_time"`
	MaxReadTime      int    `json:"max_read_time"`
	ScrollSpeed      string `json:"scroll_speed"`
	ClickPattern     string `json:"click_pattern"`
	UseCtrlF         bool   `json:"use_ctrl_f"`
	RandomNavigation bool   `json:"random_navigation"`
	ReturnToHome     bool   `json:"return_to_home"`
}

type SessionVariation struct {
	ReadTimeMultiplier float64 `json:"read_time_multiplier"`
	ActivityIntensity  string  `json:"activity_intensity"`
	NavigationStyle    string  `json:"navigation_style"`
}

type StartRequest struct {
	Devices []Device `json:"devices"`
	Tasks   TaskList `json:"tasks"`
}

type FarmStats struct {
	IsRunning              bool    `json:"is_running"`
	Uptime                 float64 `json:"uptime"`
	ActiveDevices          int     `json:"active_devices"`
	TotalDevices           int     `json:"total_devices"`
	TotalTasksCompleted    int     `json:"total_tasks_completed"`
	GoogleLoginsSuccessful int     `json:"google_logins_successful"`
	GoogleLoginsFailed     int     `json:"google_logins_failed"`
}

type DeviceStatus struct {
	DeviceID           string       `json:"device_id"`
	IsActive           bool         `json:"is_active"`
	GoogleLoginSuccess bool         `json:"google_login_success"`
	CurrentTask        *CurrentTask `json:"current_task"`
	SessionDuration    float64      `json:"session_duration"`
	BrowserType        string       `json:"browser_type,omitempty"`
}

type CurrentTask struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`
}

type Profile struct {
	GoogleLoggedIn bool    `json:"google_logged_in"`
	GoogleEmail    string  `json:"google_email,omitempty"`
	LastLogin      float64 `json:"last_login,omitempty"`
}

// ProfileBlob is an exported device profile; Data is a base64 zip archive.
type ProfileBlob struct {
	DeviceID    string  `json:"device_id"`
	Data        string  `json:"data"`
	GoogleEmail string  `json:"google_email,omitempty"`
	LastLogin   float64 `json:"last_login,omitempty"`
}

type HealthStatus struct {
	Status                 string  `json:"status"`
	Timestamp              float64 `json:"timestamp"`
	FarmManagerInitialized bool    `json:"farm_manager_initialized"`
	Environment            string  `json:"environment"`
}
