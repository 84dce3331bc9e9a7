package puzzle

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
	"github.com/kapu/emoji-movie-bot-go/internal/obslog"
)

//go:embed puzzles.json
var defaultCorpus embed.FS

// CorpusEntry is one puzzle in a corpus file.
type CorpusEntry struct {
	Emojis     string   `json:"emojis"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
	Hints      []string `json:"hints"`
}

// Corpus maps category name to its puzzles. Puzzle ids are derived as
// "<category>_<n>" so repeated loads are idempotent.
type Corpus map[string][]CorpusEntry

// ParseCorpus decodes and validates a corpus document.
func ParseCorpus(raw []byte) (Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	for category, entries := range c {
		if strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("corpus has an empty category name")
		}
		for i, e := range entries {
			if strings.TrimSpace(e.Emojis) == "" {
				return nil, fmt.Errorf("%s[%d]: missing emojis", category, i)
			}
			if strings.TrimSpace(e.Answer) == "" {
				return nil, fmt.Errorf("%s[%d]: missing answer", category, i)
			}
			if d := domain.ParseDifficulty(e.Difficulty); d == "" {
				return nil, fmt.Errorf("%s[%d]: unknown difficulty %q", category, i, e.Difficulty)
			}
		}
	}
	return c, nil
}

// Seed loads the corpus into the store when the store is empty. When path is
// non-empty that file is used, otherwise the embedded default corpus. Returns
// the number of puzzles inserted.
func Seed(ctx context.Context, store Store, path string) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count corpus: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	var raw []byte
	if strings.TrimSpace(path) != "" {
		raw, err = os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read corpus file: %w", err)
		}
	} else {
		raw, err = defaultCorpus.ReadFile("puzzles.json")
		if err != nil {
			return 0, fmt.Errorf("read embedded corpus: %w", err)
		}
	}

	corpus, err := ParseCorpus(raw)
	if err != nil {
		return 0, err
	}

	categories := make([]string, 0, len(corpus))
	for c := range corpus {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	loaded := 0
	for _, category := range categories {
		for i, e := range corpus[category] {
			p := &domain.Puzzle{
				ID:         fmt.Sprintf("%s_%d", category, i+1),
				Emojis:     e.Emojis,
				Answer:     e.Answer,
				Category:   domain.Category(category),
				Difficulty: domain.ParseDifficulty(e.Difficulty),
				Hints:      e.Hints,
			}
			if err := store.Insert(ctx, p); err != nil {
				return loaded, fmt.Errorf("insert %s: %w", p.ID, err)
			}
			loaded++
		}
	}
	obslog.L().Info("corpus_seeded", zap.Int("puzzles", loaded), zap.Int("categories", len(categories)))
	return loaded, nil
}
