package analysis

import (
	"strings"
	"unicode"

	"github.com/moderato-fm/songscreen/internal/model"
)

// PatternAutomaton is an Aho-Corasick matcher built once from a word
// list. Counting is case-insensitive, whole-word, and runs in a single
// pass over the text regardless of list size. The automaton is read-only
// after construction and safe to share across concurrent analyses.
type PatternAutomaton struct {
	lang     model.Language
	patterns []string
	lengths  []int // pattern length in runes, parallel to patterns
	nodes    []acNode
}

type acNode struct {
	next map[rune]int
	fail int
	out  []int
}

// NewPatternAutomaton builds the automaton for lang from words.
// Duplicate and empty entries are dropped; words are folded to lower case.
func NewPatternAutomaton(lang model.Language, words []string) *PatternAutomaton {
	a := &PatternAutomaton{
		lang:  lang,
		nodes: []acNode{{next: make(map[rune]int)}},
	}

	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		a.insert(w)
	}

	a.buildFailureLinks()
	return a
}

// Language returns the language this automaton was built for
func (a *PatternAutomaton) Language() model.Language {
	return a.lang
}

// Size returns the number of distinct patterns in the automaton
func (a *PatternAutomaton) Size() int {
	return len(a.patterns)
}

func (a *PatternAutomaton) insert(word string) {
	state := 0
	for _, r := range word {
		next, ok := a.nodes[state].next[r]
		if !ok {
			a.nodes = append(a.nodes, acNode{next: make(map[rune]int)})
			next = len(a.nodes) - 1
			a.nodes[state].next[r] = next
		}
		state = next
	}
	idx := len(a.patterns)
	a.patterns = append(a.patterns, word)
	a.lengths = append(a.lengths, len([]rune(word)))
	a.nodes[state].out = append(a.nodes[state].out, idx)
}

func (a *PatternAutomaton) buildFailureLinks() {
	queue := make([]int, 0, len(a.nodes))
	for _, child := range a.nodes[0].next {
		a.nodes[child].fail = 0
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for r, child := range a.nodes[state].next {
			queue = append(queue, child)

			fail := a.nodes[state].fail
			for fail != 0 {
				if _, ok := a.nodes[fail].next[r]; ok {
					break
				}
				fail = a.nodes[fail].fail
			}
			if next, ok := a.nodes[fail].next[r]; ok && next != child {
				a.nodes[child].fail = next
			} else {
				a.nodes[child].fail = 0
			}

			a.nodes[child].out = append(a.nodes[child].out, a.nodes[a.nodes[child].fail].out...)
		}
	}
}

// Count reports per-term whole-word occurrence counts in text.
// A match counts only when both neighbors are absent or non-alphanumeric.
func (a *PatternAutomaton) Count(text string) map[string]int {
	counts := make(map[string]int)
	runes := []rune(strings.ToLower(text))

	state := 0
	for i, r := range runes {
		for state != 0 {
			if _, ok := a.nodes[state].next[r]; ok {
				break
			}
			state = a.nodes[state].fail
		}
		if next, ok := a.nodes[state].next[r]; ok {
			state = next
		}

		for _, idx := range a.nodes[state].out {
			start := i - a.lengths[idx] + 1
			if start > 0 && isWordChar(runes[start-1]) {
				continue
			}
			if i+1 < len(runes) && isWordChar(runes[i+1]) {
				continue
			}
			counts[a.patterns[idx]]++
		}
	}

	return counts
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
