package scenario

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"botfarm/internal/keywords"
	"botfarm/pkg/models"
)

func TestSplitLines(t *testing.T) {
	got := SplitLines(" https://a \n\n\thttps://b\r\n   ")
	want := []string{"https://a", "https://b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitLines=%q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.ScenarioConfig
		want error
	}{
		{"missing type", models.ScenarioConfig{}, ErrNoType},
		{"unknown type", models.ScenarioConfig{Type: "tiktok"}, ErrUnknownType},
		{"youtube without urls", models.ScenarioConfig{Type: models.ScenarioYouTube}, ErrNoYouTubeURLs},
		{"traffic without urls", models.ScenarioConfig{Type: models.ScenarioTraffic}, ErrNoTrafficURLs},
		{"manual search without keywords", models.ScenarioConfig{Type: models.ScenarioSearch, Mode: ModeManual}, ErrNoKeywords},
		{"auto search without keywords", models.ScenarioConfig{Type: models.ScenarioSearch, Mode: ModeAuto}, nil},
		{"custom without tasks", models.ScenarioConfig{Type: models.ScenarioCustom}, ErrNoCustomTasks},
		{"youtube ok", models.ScenarioConfig{Type: models.ScenarioYouTube, URLs: []string{"u"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate err=%v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestPreset_AllTypesValidate(t *testing.T) {
	for _, typ := range Types() {
		cfg, err := Preset(typ)
		if err != nil {
			t.Fatalf("Preset(%s) err=%v", typ, err)
		}
		if cfg.Type != typ || cfg.Name != Label(typ) || cfg.Timestamp == "" {
			t.Errorf("Preset(%s) header=%+v", typ, cfg)
		}
		if err := Validate(cfg); err != nil {
			t.Errorf("Preset(%s) does not validate: %v", typ, err)
		}
	}

	if _, err := Preset("nope"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("Preset(nope) err=%v, want ErrUnknownType", err)
	}
}

func TestParseCustom(t *testing.T) {
	if _, err := ParseCustom([]byte("{not json")); !errors.Is(err, ErrInvalidCustom) {
		t.Fatalf("err=%v, want ErrInvalidCustom", err)
	}
	if _, err := ParseCustom([]byte(`{"other": []}`)); !errors.Is(err, ErrNoCustomTasks) {
		t.Fatalf("err=%v, want ErrNoCustomTasks", err)
	}

	custom, err := ParseCustom([]byte(`{"tasks": []}`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if custom.Tasks == nil || len(custom.Tasks) != 0 {
		t.Fatalf("tasks=%v, want empty", custom.Tasks)
	}
}

func TestResolveKeywords(t *testing.T) {
	cfg := models.ScenarioConfig{Type: models.ScenarioSearch, Mode: ModeAuto, Category: "sports", KeywordCount: 4}

	got := ResolveKeywords(cfg, rand.New(rand.NewSource(3)))
	if len(got.Keywords) != 4 {
		t.Fatalf("keywords=%v, want 4", got.Keywords)
	}
	allowed := make(map[string]bool)
	for _, k := range keywords.List("sports") {
		allowed[k] = true
	}
	for _, k := range got.Keywords {
		if !allowed[k] {
			t.Errorf("keyword %q not in sports list", k)
		}
	}

	manual := models.ScenarioConfig{Type: models.ScenarioSearch, Mode: ModeManual}
	if got := ResolveKeywords(manual, nil); got.Keywords != nil {
		t.Fatalf("manual scenario keywords=%v, want untouched", got.Keywords)
	}

	stored := models.ScenarioConfig{Type: models.ScenarioSearch, Mode: ModeAuto, Keywords: []string{"kept"}}
	if got := ResolveKeywords(stored, nil); !reflect.DeepEqual(got.Keywords, []string{"kept"}) {
		t.Fatalf("stored keywords replaced: %v", got.Keywords)
	}
}
