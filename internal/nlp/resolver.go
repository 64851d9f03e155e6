package nlp

import (
	"strings"

	"github.com/xavierdev25/barton-mobile-chatbot/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════
// Match results
// ══════════════════════════════════════════════════════════════

// MatchKind classifies the cardinality of a name search.
type MatchKind int

const (
	// MatchNone means no student matched the fragment.
	MatchNone MatchKind = iota
	// MatchSingle means exactly one student matched.
	MatchSingle
	// MatchAmbiguous means two or more students matched.
	MatchAmbiguous
)

// MatchResult is the outcome of a roster name search. Students appear in
// roster order and is empty unless Kind is MatchSingle or MatchAmbiguous.
type MatchResult struct {
	Kind     MatchKind
	Students []roster.Student
}

// Single returns the matched student. Valid only when Kind is MatchSingle.
func (m MatchResult) Single() roster.Student {
	return m.Students[0]
}

// ══════════════════════════════════════════════════════════════
// Resolver
// ══════════════════════════════════════════════════════════════

// minFragmentLen cuts off fragments so short they would substring-match
// almost any name ("a", "el").
const minFragmentLen = 3

// Resolver fuzzily locates students by name fragments drawn from free text.
type Resolver struct {
	roster roster.Roster
}

// NewResolver builds a resolver over the given roster.
func NewResolver(r roster.Roster) *Resolver {
	return &Resolver{roster: r}
}

// FindByName searches the roster for the given name fragment.
//
// Two tiers run in order and the first tier with any hit decides the result:
//
//  1. Direct: the normalized fragment is a substring of the normalized full
//     name, or at least two fragment tokens appear among the name's tokens.
//  2. Fuzzy: only for fragments of two or more tokens; the whole-string
//     similarity ratio against the full name must reach 0.99 and every
//     fragment token must occur literally in the normalized name.
//
// Matches are returned in roster order.
func (r *Resolver) FindByName(fragment string) MatchResult {
	nf := strings.TrimSpace(Normalize(fragment))
	if len(nf) < minFragmentLen {
		return MatchResult{Kind: MatchNone}
	}
	tokens := strings.Fields(nf)

	var direct []roster.Student
	for _, s := range r.roster.All() {
		name := Normalize(s.FullName)
		if strings.Contains(name, nf) || tokenOverlap(tokens, name) >= 2 {
			direct = append(direct, s)
		}
	}
	if len(direct) > 0 {
		return toResult(direct)
	}

	if len(tokens) < 2 {
		return MatchResult{Kind: MatchNone}
	}
	var fuzzy []roster.Student
	for _, s := range r.roster.All() {
		name := Normalize(s.FullName)
		if similarityRatio(nf, name) < 0.99 {
			continue
		}
		if !allTokensPresent(tokens, name) {
			continue
		}
		fuzzy = append(fuzzy, s)
	}
	return toResult(fuzzy)
}

// FindInText slides windows of three, then two, then one whitespace token
// across the normalized text, left to right, and runs FindByName on each
// fragment. The first window that resolves to anything (single or ambiguous)
// wins; longer windows are tried first so "maria fernanda quispe" beats a
// bare "maria".
func (r *Resolver) FindInText(text string) MatchResult {
	words := strings.Fields(Normalize(text))
	for size := 3; size >= 1; size-- {
		for i := 0; i+size <= len(words); i++ {
			fragment := strings.Join(words[i:i+size], " ")
			if res := r.FindByName(fragment); res.Kind != MatchNone {
				return res
			}
		}
	}
	return MatchResult{Kind: MatchNone}
}

func toResult(students []roster.Student) MatchResult {
	switch len(students) {
	case 0:
		return MatchResult{Kind: MatchNone}
	case 1:
		return MatchResult{Kind: MatchSingle, Students: students}
	default:
		return MatchResult{Kind: MatchAmbiguous, Students: students}
	}
}

// tokenOverlap counts how many fragment tokens appear as whole tokens of
// the normalized name.
func tokenOverlap(fragmentTokens []string, name string) int {
	nameTokens := strings.Fields(name)
	set := make(map[string]struct{}, len(nameTokens))
	for _, t := range nameTokens {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range fragmentTokens {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

func allTokensPresent(tokens []string, name string) bool {
	for _, t := range tokens {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

// similarityRatio scores how close two strings are on a 0..1 scale using
// edit distance over the longer length.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			ins := row[j-1] + 1
			del := row[j] + 1
			sub := prev + cost
			prev = row[j]
			row[j] = min3(ins, del, sub)
		}
	}
	return row[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
