package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"botfarm/internal/controller"
	"botfarm/internal/keywords"
	"botfarm/internal/scenario"
	"botfarm/pkg/models"
	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Configure the farm scenario",
}

var scenarioSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Validate and save a scenario as the current one",
	Long: `Save builds a scenario from flags, or loads it from --file, validates it, stores it
locally as the current scenario and pushes it to the backend.`,
	RunE: runScenarioSave,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current scenario",
	RunE:  runScenarioShow,
}

var scenarioPresetCmd = &cobra.Command{
	Use:   "preset [youtube|traffic|search|custom]",
	Short: "Print an example scenario of the given type",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioPreset,
}

var scenarioClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the current scenario",
	RunE:  runScenarioClear,
}

var scenarioHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously saved scenarios",
	RunE:  runScenarioHistory,
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Draw auto-generated keywords or parse a keyword file",
	RunE:  runKeywords,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(keywordsCmd)
	scenarioCmd.AddCommand(scenarioSaveCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioPresetCmd)
	scenarioCmd.AddCommand(scenarioClearCmd)
	scenarioCmd.AddCommand(scenarioHistoryCmd)

	for _, t := range scenario.Types() {
		scenarioPresetCmd.ValidArgs = append(scenarioPresetCmd.ValidArgs, string(t))
	}

	f := scenarioSaveCmd.Flags()
	f.String("file", "", "Load the whole scenario from a JSON file")
	f.String("preset", "", "Start from the preset of this type")
	f.String("type", "", "Scenario type: youtube, traffic, search or custom")
	f.String("name", "", "Scenario name")
	f.StringSlice("urls", nil, "YouTube or website URLs")
	f.String("urls-file", "", "File with one URL per line")
	f.Int("min-time", 0, "YouTube: minimum watch time in seconds")
	f.Int("max-time", 0, "YouTube: maximum watch time in seconds")
	f.Bool("auto-like", false, "YouTube: like watched videos")
	f.Bool("auto-subscribe", false, "YouTube: subscribe to channels")
	f.Int("duration", 0, "Traffic: visit duration in seconds")
	f.Int("pages", 0, "Traffic: pages per session")
	f.Bool("random-click", false, "Traffic: click random links")
	f.Bool("random-scroll", false, "Traffic: scroll randomly")
	f.String("engine", "", "Search: search engine")
	f.String("mode", "", "Search: keyword mode manual, auto or file")
	f.StringSlice("keywords", nil, "Search: keywords for manual mode")
	f.String("keywords-file", "", "Search: keyword file (.json, .txt or .csv)")
	f.String("category", "", "Search: keyword category for auto mode")
	f.Int("keyword-count", 0, "Search: number of auto keywords")
	f.StringSlice("target-urls", nil, "Search: target URLs to prefer in results")
	f.Int("searches", 0, "Search: searches per device")
	f.Int("min-clicks", 0, "Search: minimum result clicks")
	f.Int("max-clicks", 0, "Search: maximum result clicks")
	f.String("custom-file", "", "Custom: JSON file of the form {\"tasks\": [...]}")

	scenarioHistoryCmd.Flags().Int("limit", 10, "Number of entries to show")

	keywordsCmd.Flags().String("category", keywords.DefaultCategory,
		"Keyword category: "+strings.Join(keywords.Categories(), ", "))
	keywordsCmd.Flags().Int("count", 10, "Number of keywords to draw")
	keywordsCmd.Flags().String("file", "", "Parse this keyword file instead of drawing")
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// scenarioFromFlags builds the scenario described by the save flags.
func scenarioFromFlags(cmd *cobra.Command) (models.ScenarioConfig, error) {
	f := cmd.Flags()

	if path, _ := f.GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return models.ScenarioConfig{}, fmt.Errorf("failed to read scenario file: %w", err)
		}
		var cfg models.ScenarioConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return models.ScenarioConfig{}, fmt.Errorf("%w: %v", scenario.ErrInvalidCustom, err)
		}
		return cfg, nil
	}

	var cfg models.ScenarioConfig
	if preset, _ := f.GetString("preset"); preset != "" {
		p, err := scenario.Preset(models.ScenarioType(preset))
		if err != nil {
			return cfg, err
		}
		cfg = p
	}
	if t, _ := f.GetString("type"); t != "" {
		if cfg.Type != "" && cfg.Type != models.ScenarioType(t) {
			return cfg, fmt.Errorf("--type %s conflicts with --preset %s", t, cfg.Type)
		}
		if cfg.Type == "" {
			cfg = scenario.New(models.ScenarioType(t))
		}
	}

	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}
	setSlice := func(name string, dst *[]string) {
		if f.Changed(name) {
			*dst, _ = f.GetStringSlice(name)
		}
	}

	setString("name", &cfg.Name)
	setSlice("urls", &cfg.URLs)
	if path, _ := f.GetString("urls-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read URLs: %w", err)
		}
		cfg.URLs = scenario.SplitLines(string(data))
	}
	setInt("min-time", &cfg.MinTime)
	setInt("max-time", &cfg.MaxTime)
	setBool("auto-like", &cfg.AutoLike)
	setBool("auto-subscribe", &cfg.AutoSubscribe)
	setInt("duration", &cfg.Duration)
	setInt("pages", &cfg.PagesPerSession)
	setBool("random-click", &cfg.RandomClick)
	setBool("random-scroll", &cfg.RandomScroll)
	setString("engine", &cfg.Engine)
	setString("mode", &cfg.Mode)
	setSlice("keywords", &cfg.Keywords)
	setString("category", &cfg.Category)
	setInt("keyword-count", &cfg.KeywordCount)
	setSlice("target-urls", &cfg.TargetURLs)
	setInt("searches", &cfg.SearchesPerDevice)
	setInt("min-clicks", &cfg.MinClicks)
	setInt("max-clicks", &cfg.MaxClicks)

	if path, _ := f.GetString("keywords-file"); path != "" {
		kw, err := keywords.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Keywords = kw
		cfg.Mode = scenario.ModeFile
	}

	if path, _ := f.GetString("custom-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read custom tasks: %w", err)
		}
		custom, err := scenario.ParseCustom(data)
		if err != nil {
			return cfg, err
		}
		cfg.Custom = custom
	}

	return cfg, nil
}

func runScenarioSave(cmd *cobra.Command, args []string) error {
	cfg, err := scenarioFromFlags(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return a.ctrl.SaveScenario(ctx, cfg)
}

func runScenarioShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.ctrl.CurrentScenario()
	if cfg == nil {
		return controller.ErrNoScenario
	}
	return printJSON(cfg)
}

func runScenarioPreset(cmd *cobra.Command, args []string) error {
	cfg, err := scenario.Preset(models.ScenarioType(args[0]))
	if err != nil {
		return err
	}
	return printJSON(cfg)
}

func runScenarioClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.ctrl.ClearScenario()
}

func runScenarioHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, controller.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	items, err := a.store.History(limit)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No saved scenarios.")
		return nil
	}

	fmt.Printf("%-36s %-8s %-20s %s\n", "ID", "TYPE", "SAVED", "NAME")
	for _, item := range items {
		fmt.Printf("%-36s %-8s %-20s %s\n", item.ID, item.Type, item.SavedAt.Local().Format("2006-01-02 15:04:05"), item.Name)
	}
	return nil
}

func runKeywords(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		kw, err := keywords.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d keywords from file\n", len(kw))
		for _, k := range kw {
			fmt.Println(k)
		}
		return nil
	}

	category, _ := cmd.Flags().GetString("category")
	count, _ := cmd.Flags().GetInt("count")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, k := range keywords.Select(category, count, rng) {
		fmt.Println(k)
	}
	return nil
}
