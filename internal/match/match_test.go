package match

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  The   Lion  King ", "lion king"},
		{"Spider-Man!", "spiderman"},
		{"Amélie", "amelie"},
		{"A Quiet Place", "quiet place"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"titanic", "The Dark Knight", "3 idiots"} {
		if got := Similarity(s, s); got != 1.0 {
			t.Fatalf("Similarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if got := Similarity("", "titanic"); got != 0.0 {
		t.Fatalf("empty guess similarity = %v, want 0.0", got)
	}
	if got := Similarity("...", "titanic"); got != 0.0 {
		t.Fatalf("punctuation-only guess similarity = %v, want 0.0", got)
	}
}

func TestSimilarityCaseAndArticles(t *testing.T) {
	if got := Similarity("the lion king", "Lion King"); got != 1.0 {
		t.Fatalf("article/case similarity = %v, want 1.0", got)
	}
}

func TestSimilaritySubstring(t *testing.T) {
	if got := Similarity("dark knight", "The Dark Knight Rises"); got != 0.8 {
		t.Fatalf("substring similarity = %v, want 0.8", got)
	}
}

func TestSimilarityJaccard(t *testing.T) {
	// {back, future} vs {back, to, the, future}: 2/4
	if got := Similarity("future back", "Back to the Future"); got != 0.5 {
		t.Fatalf("jaccard similarity = %v, want 0.5", got)
	}
	if got := Similarity("king lion", "The Lion King"); got != 1.0 {
		t.Fatalf("word-set similarity = %v, want 1.0", got)
	}
}

func TestIsMatch(t *testing.T) {
	if !IsMatch("Titanic", "titanic", 0.8) {
		t.Fatalf("expected exact match to clear threshold")
	}
	if IsMatch("future back", "Back to the Future", 0.8) {
		t.Fatalf("expected partial overlap to stay below threshold")
	}
}
