package models

import "encoding/json"

type ScenarioType string

const (
	ScenarioYouTube ScenarioType = "youtube"
	ScenarioTraffic ScenarioType = "traffic"
	ScenarioSearch  ScenarioType = "search"
	ScenarioCustom  ScenarioType = "custom"
)

// ScenarioConfig is the saved dashboard scenario. Only the fields of the
// selected Type are meaningful; the JSON layout matches what the dashboard
// persists under currentScenario and sends to /api/scenario/save.
type ScenarioConfig struct {
	Type      ScenarioType `json:"type"`
	Name      string       `json:"name"`
	Timestamp string       `json:"timestamp"`

	// youtube and traffic
	URLs []string `json:"urls"`

	// youtube
	MinTime       int  `json:"minTime,omitempty"`
	MaxTime       int  `json:"maxTime,omitempty"`
	AutoLike      bool `json:"autoLike,omitempty"`
	AutoSubscribe bool `json:"autoSubscribe,omitempty"`

	// traffic
	Duration        int  `json:"duration,omitempty"`
	PagesPerSession int  `json:"pagesPerSession,omitempty"`
	RandomClick     bool `json:"randomClick,omitempty"`
	RandomScroll    bool `json:"randomScroll,omitempty"`

	// search
	Engine            string          `json:"engine,omitempty"`
	Mode              string          `json:"mode,omitempty"`
	Keywords          []string        `json:"keywords"`
	Category          string          `json:"category,omitempty"`
	KeywordCount      int             `json:"keywordCount,omitempty"`
	TargetURLs        []string        `json:"targetUrls,omitempty"`
	SearchesPerDevice int             `json:"searchesPerDevice,omitempty"`
	MinClicks         int             `json:"minClicks,omitempty"`
	MaxClicks         int             `json:"maxClicks,omitempty"`
	Behavior          *SearchBehavior `json:"behavior,omitempty"`

	// custom
	Custom *CustomScenario `json:"custom,omitempty"`
}

// SearchBehavior holds the configured base values that the compiler varies
// per device. Zero values fall back to defaults.
type SearchBehavior struct {
	MinReadTime      int    `json:"minReadTime,omitempty"`
	MaxReadTime      int    `json:"maxReadTime,omitempty"`
	ScrollSpeed      string `json:"scrollSpeed,omitempty"`
	ClickPattern     string `json:"clickPattern,omitempty"`
	UseCtrlF         *bool  `json:"useCtrlF,omitempty"`
	RandomNavigation *bool  `json:"randomNavigation,omitempty"`
	ReturnToHome     bool   `json:"returnToHome,omitempty"`
}

type CustomScenario struct {
	Tasks []RawTask `json:"tasks"`
}

// RawTask is a caller-supplied task kept byte for byte.
type RawTask json.RawMessage

func (t RawTask) MarshalJSON() ([]byte, error) {
	if len(t) == 0 {
		return []byte("null"), nil
	}
	return t, nil
}

func (t *RawTask) UnmarshalJSON(data []byte) error {
	*t = append((*t)[:0], data...)
	return nil
}

func (t RawTask) TaskType() string {
	return t.field().Type
}

func (t RawTask) TaskDevice() string {
	return t.field().DeviceID
}

func (t RawTask) field() (f struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
}) {
	_ = json.Unmarshal(t, &f)
	return f
}

// Bool returns a pointer to v, for tri-state behavior flags.
func Bool(v bool) *bool {
	return &v
}
