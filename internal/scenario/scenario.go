// Package scenario builds and validates ScenarioConfig values. It is the
// form-binding layer between operator input and the task compiler.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"botfarm/internal/keywords"
	"botfarm/pkg/models"
	"github.com/samber/lo"
)

const (
	ModeManual = "manual"
	ModeAuto   = "auto"
	ModeFile   = "file"

	defaultKeywordCount = 10
)

var (
	ErrNoType        = errors.New("please select a scenario type first")
	ErrUnknownType   = errors.New("unknown scenario type")
	ErrNoYouTubeURLs = errors.New("please add at least one YouTube URL")
	ErrNoTrafficURLs = errors.New("please add at least one target URL")
	ErrNoKeywords    = errors.New("please add at least one search keyword")
	ErrInvalidCustom = errors.New("invalid JSON format, please check your configuration")
	ErrNoCustomTasks = errors.New("custom scenario needs a tasks array")
)

var labels = map[models.ScenarioType]string{
	models.ScenarioYouTube: "YouTube Watch",
	models.ScenarioTraffic: "Website Traffic",
	models.ScenarioSearch:  "Search Engine",
	models.ScenarioCustom:  "Custom Tasks",
}

// Types lists the supported scenario types in display order.
func Types() []models.ScenarioType {
	return []models.ScenarioType{
		models.ScenarioYouTube,
		models.ScenarioTraffic,
		models.ScenarioSearch,
		models.ScenarioCustom,
	}
}

func Label(t models.ScenarioType) string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

// New returns an empty scenario of type t stamped with the current time.
func New(t models.ScenarioType) models.ScenarioConfig {
	return models.ScenarioConfig{
		Type:      t,
		Name:      Label(t),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SplitLines returns the trimmed, non-blank lines of text.
func SplitLines(text string) []string {
	lines := lo.Map(strings.Split(text, "\n"), func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	return lo.Filter(lines, func(line string, _ int) bool {
		return line != ""
	})
}

// ParseCustom decodes a custom scenario document of the form {"tasks": [...]}.
func ParseCustom(data []byte) (*models.CustomScenario, error) {
	var custom models.CustomScenario
	if err := json.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCustom, err)
	}
	if custom.Tasks == nil {
		return nil, ErrNoCustomTasks
	}
	return &custom, nil
}

// Validate reports the first problem that would stop the scenario from being saved.
func Validate(cfg models.ScenarioConfig) error {
	switch cfg.Type {
	case "":
		return ErrNoType
	case models.ScenarioYouTube:
		if len(cfg.URLs) == 0 {
			return ErrNoYouTubeURLs
		}
	case models.ScenarioTraffic:
		if len(cfg.URLs) == 0 {
			return ErrNoTrafficURLs
		}
	case models.ScenarioSearch:
		if (cfg.Mode == "" || cfg.Mode == ModeManual) && len(cfg.Keywords) == 0 {
			return ErrNoKeywords
		}
	case models.ScenarioCustom:
		if cfg.Custom == nil || cfg.Custom.Tasks == nil {
			return ErrNoCustomTasks
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
	return nil
}

// ResolveKeywords fills keywords for auto-mode search scenarios that were
// saved without any, drawing from the configured category.
func ResolveKeywords(cfg models.ScenarioConfig, rng keywords.Shuffler) models.ScenarioConfig {
	if cfg.Type != models.ScenarioSearch || cfg.Mode != ModeAuto || len(cfg.Keywords) > 0 {
		return cfg
	}

	count := cfg.KeywordCount
	if count <= 0 {
		count = defaultKeywordCount
	}
	category := cfg.Category
	if category == "" {
		category = keywords.DefaultCategory
	}

	cfg.Keywords = keywords.Select(category, count, rng)
	return cfg
}
