// corpuslint validates a puzzle corpus JSON file before it is shipped to the
// bot: schema errors, unknown difficulties and duplicate answers inside a
// category are reported with their location.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/kapu/emoji-movie-bot-go/internal/match"
	"github.com/kapu/emoji-movie-bot-go/internal/puzzle"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: corpuslint <corpus.json>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	corpus, err := puzzle.ParseCorpus(raw)
	if err != nil {
		log.Fatalf("invalid corpus: %v", err)
	}

	problems := 0
	total := 0
	categories := make([]string, 0, len(corpus))
	for c := range corpus {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		entries := corpus[category]
		total += len(entries)

		// Duplicate answers in one category make rounds ambiguous: the recent
		// window excludes by id, not by title.
		seen := map[string]int{}
		for i, e := range entries {
			key := match.Normalize(e.Answer)
			if prev, ok := seen[key]; ok {
				fmt.Printf("%s[%d]: answer %q duplicates %s[%d]\n", category, i, e.Answer, category, prev)
				problems++
			} else {
				seen[key] = i
			}
			if len(e.Hints) == 0 {
				fmt.Printf("%s[%d]: %q has no hints\n", category, i, e.Answer)
				problems++
			}
			for j, h := range e.Hints {
				if strings.TrimSpace(h) == "" {
					fmt.Printf("%s[%d]: hint %d is blank\n", category, i, j+1)
					problems++
				}
			}
		}
	}

	if problems > 0 {
		fmt.Printf("%d puzzle(s), %d problem(s)\n", total, problems)
		os.Exit(1)
	}
	fmt.Printf("%d puzzle(s) in %d categories, no problems\n", total, len(categories))
}
