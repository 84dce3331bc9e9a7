package domain

import "strings"

// Category is a curated movie genre bucket. Kept as a string type so new
// categories can be added to the corpus without code changes.
type Category string

const (
	CategoryHollywood Category = "hollywood"
	CategoryBollywood Category = "bollywood"
	CategoryTollywood Category = "tollywood"
	CategoryAnime     Category = "anime"
	CategoryClassic   Category = "classic"
)

// Difficulty of a puzzle.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty returns the difficulty for a user-supplied token, or "" when
// the token is not a known level.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return ""
	}
}

// ParseCategory returns the category for a user-supplied token, or "" when the
// token is not one of the curated categories.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryHollywood:
		return CategoryHollywood
	case CategoryBollywood:
		return CategoryBollywood
	case CategoryTollywood:
		return CategoryTollywood
	case CategoryAnime:
		return CategoryAnime
	case CategoryClassic:
		return CategoryClassic
	default:
		return ""
	}
}

// Puzzle is immutable reference content: an emoji sequence mapped to a movie
// title. Usage counters are the only mutable fields and are incremented
// in-place at the storage layer.
type Puzzle struct {
	ID             string     `json:"id"`
	Emojis         string     `json:"emojis"`
	Answer         string     `json:"answer"`
	Category       Category   `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Hints          []string   `json:"hints,omitempty"`
	TimesPresented int        `json:"times_presented"`
	TimesSolved    int        `json:"times_solved"`
}
