// Package seeds loads extra seed keywords from a file.
package seeds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/fxseo/pkg/fxseo/keyword"
)

// Entry is the JSONL form of a seed line.
type Entry struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category,omitempty"`
}

// Seeds is the content of a seed file.
type Seeds struct {
	// Keywords are normalized and deduplicated in file order.
	Keywords []string
	// Categories pins the category of seeds whose JSON line carried a
	// known category, keyed by normalized keyword.
	Categories map[string]keyword.Category
}

// Load reads seed keywords from path. Each non-empty line is either a plain
// keyword or a JSON object with a "keyword" field and an optional
// "category"; lines starting with '#' are comments. Malformed JSON lines are
// logged and skipped, as are unknown categories (the keyword itself is kept).
func Load(path string, logger *zap.Logger) (Seeds, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Seeds{}, fmt.Errorf("read file %s: %w", path, err)
	}

	var raw []string
	pins := make(map[string]keyword.Category)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "{") {
			raw = append(raw, line)
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil || strings.TrimSpace(e.Keyword) == "" {
			logger.Warn("skipping malformed seed line",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}
		raw = append(raw, e.Keyword)

		if e.Category == "" {
			continue
		}
		cat := keyword.Category(e.Category)
		if !cat.Valid() {
			logger.Warn("ignoring unknown seed category",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.String("category", e.Category))
			continue
		}
		pins[keyword.Normalize(e.Keyword)] = cat
	}

	keywords := keyword.NormalizeAll(raw)
	if len(keywords) == 0 {
		return Seeds{}, fmt.Errorf("no valid seeds found in %s", path)
	}
	return Seeds{Keywords: keywords, Categories: pins}, nil
}
