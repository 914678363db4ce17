package keywords

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Parse extracts keywords from an uploaded file's content. JSON files may
// hold an array or an object with a keywords array; malformed JSON falls back
// to one keyword per line. Other files are read as comma or newline separated
// values, skipping blanks and # comments.
func Parse(filename, content string) []string {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return parseJSON(content)
	}

	var keywords []string
	for _, line := range strings.Split(content, "\n") {
		for _, k := range strings.Split(line, ",") {
			k = strings.TrimSpace(k)
			if k == "" || strings.HasPrefix(k, "#") {
				continue
			}
			keywords = append(keywords, k)
		}
	}
	return nonNil(keywords)
}

func parseJSON(content string) []string {
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return lines(content)
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["keywords"].([]any)
	}

	var keywords []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			keywords = append(keywords, s)
		}
	}
	return nonNil(keywords)
}

func lines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return nonNil(out)
}

// ReadFile parses the keyword file at path.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}
	return Parse(filepath.Base(path), string(data)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
