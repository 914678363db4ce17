// Package tasks turns a saved scenario and its accounts into the device and
// task lists submitted to the farm backend.
package tasks

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"botfarm/pkg/models"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"

	TypeYouTube        = "youtube"
	TypeWebsiteVisit   = "website_visit"
	TypeEnhancedSearch = "enhanced_search"
)

const (
	defaultEngine            = "google"
	defaultSearchesPerDevice = 5
	defaultMinClicks         = 2
	defaultMaxClicks         = 4
	defaultMinReadTime       = 30
	defaultMaxReadTime       = 90
	defaultScrollSpeed       = "medium"
	defaultClickPattern      = "normal"

	minReadTimeFloor  = 10
	minReadTimeSpread = 5
	maxReadTimeSpread = 10
)

var (
	activityIntensities = []string{"low", "medium", "high"}
	navigationStyles    = []string{"direct", "explorative", "casual"}
)

// Rand is the randomness the compiler needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type Compiler struct {
	rng Rand
}

// NewCompiler returns a compiler drawing from rng. A nil rng gets a
// time-seeded source, so repeated compilations vary.
func NewCompiler(rng Rand) *Compiler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Compiler{rng: rng}
}

// Compile dispatches on the scenario type. Unknown types yield an empty list.
func (c *Compiler) Compile(cfg models.ScenarioConfig, accounts []models.Account) models.TaskList {
	list := models.TaskList{Tasks: []models.Task{}}

	switch cfg.Type {
	case models.ScenarioYouTube:
		for _, t := range YouTubeTasks(cfg, accounts) {
			list.Tasks = append(list.Tasks, t)
		}
	case models.ScenarioTraffic:
		for _, t := range TrafficTasks(cfg, accounts) {
			list.Tasks = append(list.Tasks, t)
		}
	case models.ScenarioSearch:
		for _, t := range c.SearchTasks(cfg, accounts) {
			list.Tasks = append(list.Tasks, t)
		}
	case models.ScenarioCustom:
		if cfg.Custom != nil {
			for _, t := range cfg.Custom.Tasks {
				list.Tasks = append(list.Tasks, t)
			}
		}
	}

	return list
}

// YouTubeTasks emits one task per account and URL, account-major.
func YouTubeTasks(cfg models.ScenarioConfig, accounts []models.Account) []models.YouTubeTask {
	tasks := make([]models.YouTubeTask, 0, len(accounts)*len(cfg.URLs))
	taskID := 1

	for i, account := range accounts {
		deviceID := deviceFor(account, i)
		for _, url := range cfg.URLs {
			tasks = append(tasks, models.YouTubeTask{
				ID:            fmt.Sprintf("task_%d", taskID),
				Type:          TypeYouTube,
				DeviceID:      deviceID,
				VideoURL:      url,
				WatchTimeMin:  cfg.MinTime,
				WatchTimeMax:  cfg.MaxTime,
				AutoLike:      cfg.AutoLike,
				AutoSubscribe: cfg.AutoSubscribe,
				Priority:      PriorityHigh,
			})
			taskID++
		}
	}

	return tasks
}

// TrafficTasks emits one website visit per account sharing the full URL list.
func TrafficTasks(cfg models.ScenarioConfig, accounts []models.Account) []models.TrafficTask {
	tasks := make([]models.TrafficTask, 0, len(accounts))

	for i, account := range accounts {
		tasks = append(tasks, models.TrafficTask{
			ID:              fmt.Sprintf("task_%d", i+1),
			Type:            TypeWebsiteVisit,
			DeviceID:        deviceFor(account, i),
			URLs:            cfg.URLs,
			VisitDuration:   cfg.Duration,
			PagesPerSession: cfg.PagesPerSession,
			RandomClick:     cfg.RandomClick,
			RandomScroll:    cfg.RandomScroll,
			Priority:        PriorityMedium,
		})
	}

	return tasks
}

// SearchTasks emits one enhanced search per account, each with its own
// behavior and session variation.
func (c *Compiler) SearchTasks(cfg models.ScenarioConfig, accounts []models.Account) []models.SearchTask {
	tasks := make([]models.SearchTask, 0, len(accounts))

	base := models.SearchBehavior{}
	if cfg.Behavior != nil {
		base = *cfg.Behavior
	}

	keywords := cfg.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	targets := cfg.TargetURLs
	if targets == nil {
		targets = []string{}
	}

	for i, account := range accounts {
		tasks = append(tasks, models.SearchTask{
			ID:                fmt.Sprintf("enhanced_search_%d", i+1),
			Type:              TypeEnhancedSearch,
			DeviceID:          deviceFor(account, i),
			Engine:            orString(cfg.Engine, defaultEngine),
			Keywords:          keywords,
			TargetURLs:        targets,
			SearchesPerDevice: orInt(cfg.SearchesPerDevice, defaultSearchesPerDevice),
			MinResultClicks:   orInt(cfg.MinClicks, defaultMinClicks),
			MaxResultClicks:   orInt(cfg.MaxClicks, defaultMaxClicks),
			Behavior:          c.deviceBehavior(base),
			Priority:          PriorityMedium,
			SessionVariation:  c.sessionVariation(),
		})
	}

	return tasks
}

func (c *Compiler) deviceBehavior(base models.SearchBehavior) models.DeviceBehavior {
	minRead := orInt(base.MinReadTime, defaultMinReadTime) + c.spread(minReadTimeSpread)
	if minRead < minReadTimeFloor {
		minRead = minReadTimeFloor
	}

	return models.DeviceBehavior{
		MinReadTime:      minRead,
		MaxReadTime:      orInt(base.MaxReadTime, defaultMaxReadTime) + c.spread(maxReadTimeSpread),
		ScrollSpeed:      orString(base.ScrollSpeed, defaultScrollSpeed),
		ClickPattern:     orString(base.ClickPattern, defaultClickPattern),
		UseCtrlF:         base.UseCtrlF == nil || *base.UseCtrlF,
		RandomNavigation: base.RandomNavigation == nil || *base.RandomNavigation,
		ReturnToHome:     base.ReturnToHome,
	}
}

func (c *Compiler) sessionVariation() models.SessionVariation {
	multiplier := 0.8 + c.rng.Float64()*0.4
	if multiplier >= 1.2 {
		multiplier = math.Nextafter(1.2, 0)
	}

	return models.SessionVariation{
		ReadTimeMultiplier: multiplier,
		ActivityIntensity:  activityIntensities[c.rng.Intn(len(activityIntensities))],
		NavigationStyle:    navigationStyles[c.rng.Intn(len(navigationStyles))],
	}
}

// spread returns a uniform integer in [-r, r].
func (c *Compiler) spread(r int) int {
	return c.rng.Intn(2*r+1) - r
}

func deviceFor(account models.Account, index int) string {
	if account.DeviceID != "" {
		return account.DeviceID
	}
	return DeviceID(index)
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
