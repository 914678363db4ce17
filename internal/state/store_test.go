package state

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"botfarm/pkg/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKV(t *testing.T) {
	s := openStore(t)

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err=%v, want ErrNotFound", err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set err=%v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set overwrite err=%v", err)
	}
	if v, err := s.Get("k"); err != nil || v != "v2" {
		t.Fatalf("Get=%q, %v", v, err)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err=%v", err)
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	s := openStore(t)
	if _, err := s.LoadScenario(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadScenario err=%v, want ErrNotFound", err)
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	s := openStore(t)

	saved := models.ScenarioConfig{
		Type:       models.ScenarioSearch,
		Name:       "Search Engine",
		Timestamp:  "2024-05-01T10:00:00Z",
		Mode:       "manual",
		Keywords:   []string{"golang", "sqlite"},
		TargetURLs: []string{"https://example.com"},
		Behavior: &models.SearchBehavior{
			MinReadTime:      25,
			MaxReadTime:      80,
			ScrollSpeed:      "slow",
			UseCtrlF:         models.Bool(false),
			RandomNavigation: models.Bool(true),
		},
	}
	if err := s.SaveScenario(saved); err != nil {
		t.Fatalf("SaveScenario err=%v", err)
	}

	loaded, err := s.LoadScenario()
	if err != nil {
		t.Fatalf("LoadScenario err=%v", err)
	}
	if loaded.Type != saved.Type {
		t.Errorf("type=%s, want %s", loaded.Type, saved.Type)
	}
	if !reflect.DeepEqual(loaded.Keywords, saved.Keywords) {
		t.Errorf("keywords=%v, want %v", loaded.Keywords, saved.Keywords)
	}
	if !reflect.DeepEqual(loaded.Behavior, saved.Behavior) {
		t.Errorf("behavior=%+v, want %+v", loaded.Behavior, saved.Behavior)
	}
	if !reflect.DeepEqual(*loaded, saved) {
		t.Errorf("loaded=%+v\nwant   %+v", *loaded, saved)
	}

	youtube := models.ScenarioConfig{Type: models.ScenarioYouTube, Name: "YouTube Watch", URLs: []string{"https://youtu.be/x"}}
	if err := s.SaveScenario(youtube); err != nil {
		t.Fatalf("SaveScenario err=%v", err)
	}
	loaded, err = s.LoadScenario()
	if err != nil {
		t.Fatalf("LoadScenario err=%v", err)
	}
	if loaded.Type != models.ScenarioYouTube || !reflect.DeepEqual(loaded.URLs, youtube.URLs) {
		t.Fatalf("current scenario not replaced: %+v", loaded)
	}
}

func TestHistory(t *testing.T) {
	s := openStore(t)

	for _, typ := range []models.ScenarioType{models.ScenarioTraffic, models.ScenarioYouTube, models.ScenarioCustom} {
		if err := s.SaveScenario(models.ScenarioConfig{Type: typ, Name: string(typ)}); err != nil {
			t.Fatalf("SaveScenario err=%v", err)
		}
	}

	items, err := s.History(0)
	if err != nil {
		t.Fatalf("History err=%v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len=%d, want 3", len(items))
	}
	if items[0].Type != models.ScenarioCustom || items[2].Type != models.ScenarioTraffic {
		t.Fatalf("order=%s,%s,%s", items[0].Type, items[1].Type, items[2].Type)
	}
	if items[0].ID == "" || items[0].ID == items[1].ID {
		t.Fatalf("ids not unique: %q %q", items[0].ID, items[1].ID)
	}

	limited, err := s.History(2)
	if err != nil {
		t.Fatalf("History(2) err=%v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("History(2) len=%d", len(limited))
	}
}

func TestClearScenario_KeepsHistory(t *testing.T) {
	s := openStore(t)

	cfg := models.ScenarioConfig{Type: models.ScenarioTraffic, Name: "Website Traffic", URLs: []string{"https://example.com"}}
	if err := s.SaveScenario(cfg); err != nil {
		t.Fatalf("SaveScenario err=%v", err)
	}
	if err := s.ClearScenario(); err != nil {
		t.Fatalf("ClearScenario err=%v", err)
	}

	if _, err := s.LoadScenario(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadScenario err=%v, want ErrNotFound", err)
	}
	items, err := s.History(10)
	if err != nil {
		t.Fatalf("History err=%v", err)
	}
	if len(items) != 1 {
		t.Fatalf("history len=%d, want 1", len(items))
	}
}

func TestScenarioRoundTrip_EmptyListsStayEmpty(t *testing.T) {
	s := openStore(t)

	saved := models.ScenarioConfig{
		Type:     models.ScenarioSearch,
		Name:     "Search Engine",
		Mode:     "auto",
		Category: "news",
		Keywords: []string{},
		URLs:     []string{},
	}
	if err := s.SaveScenario(saved); err != nil {
		t.Fatalf("SaveScenario err=%v", err)
	}

	loaded, err := s.LoadScenario()
	if err != nil {
		t.Fatalf("LoadScenario err=%v", err)
	}
	if loaded.Keywords == nil || loaded.URLs == nil {
		t.Fatalf("keywords nil=%t urls nil=%t, want empty non-nil slices",
			loaded.Keywords == nil, loaded.URLs == nil)
	}
	if !reflect.DeepEqual(*loaded, saved) {
		t.Fatalf("loaded=%+v\nwant   %+v", *loaded, saved)
	}
}
