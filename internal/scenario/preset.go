package scenario

import (
	"fmt"

	"botfarm/pkg/models"
)

const customPreset = `{
  "tasks": [
    {
      "type": "website_visit",
      "urls": ["https://example.com", "https://example.com/blog"],
      "duration": 120,
      "random_click": true
    },
    {
      "type": "search_engine",
      "engine": "google",
      "keywords": ["technology", "innovation"],
      "max_results": 5
    }
  ]
}`

// Preset returns a ready-to-save example scenario of type t.
func Preset(t models.ScenarioType) (models.ScenarioConfig, error) {
	cfg := New(t)

	switch t {
	case models.ScenarioYouTube:
		cfg.URLs = []string{
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/watch?v=JGwWNGJdvx8",
		}
		cfg.MinTime = 60
		cfg.MaxTime = 180
		cfg.AutoLike = true
		cfg.AutoSubscribe = false

	case models.ScenarioTraffic:
		cfg.URLs = []string{"https://example.com", "https://example.com/blog", "https://example.com/products"}
		cfg.Duration = 120
		cfg.PagesPerSession = 5
		cfg.RandomClick = true
		cfg.RandomScroll = true

	case models.ScenarioSearch:
		cfg.Engine = "google"
		cfg.Mode = ModeManual
		cfg.Keywords = []string{
			"artificial intelligence", "machine learning", "deep learning",
			"neural networks", "AI applications",
		}
		cfg.TargetURLs = []string{"https://example.com/ai-research", "https://example.com/tech-news"}
		cfg.SearchesPerDevice = 5
		cfg.MinClicks = 2
		cfg.MaxClicks = 4
		cfg.Behavior = &models.SearchBehavior{
			MinReadTime:      30,
			MaxReadTime:      90,
			ScrollSpeed:      "medium",
			ClickPattern:     "normal",
			UseCtrlF:         models.Bool(true),
			RandomNavigation: models.Bool(true),
			ReturnToHome:     false,
		}

	case models.ScenarioCustom:
		custom, err := ParseCustom([]byte(customPreset))
		if err != nil {
			return models.ScenarioConfig{}, err
		}
		cfg.Custom = custom

	default:
		return models.ScenarioConfig{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	return cfg, nil
}
