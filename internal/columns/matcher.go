// Package columns implements the heuristic lookup that maps loosely named
// dataset columns onto the concepts the analyses need. Matching is a plain
// deterministic test against synonym patterns, nothing scored or learned.
package columns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

// Matcher tests column names against an ordered list of synonym patterns.
// Every pattern runs against both the lowercased raw name and a normalized
// form with all non-alphanumerics stripped, so "Is_Color " satisfies an
// `^iscolor$` pattern.
type Matcher struct {
	patterns []*regexp.Regexp
}

// New compiles the given patterns into a Matcher.
func New(patterns ...string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile column pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// MustNew is New for compile-time constant pattern lists.
func MustNew(patterns ...string) *Matcher {
	m, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether the column name satisfies any pattern.
func (m *Matcher) Matches(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	norm := Normalize(name)
	for _, re := range m.patterns {
		if re.MatchString(lower) || re.MatchString(norm) {
			return true
		}
	}
	return false
}

// First returns the first matching name in declaration order, or ok=false
// when nothing matches. It never fails.
func (m *Matcher) First(names []string) (string, bool) {
	for _, name := range names {
		if m.Matches(name) {
			return name, true
		}
	}
	return "", false
}

// Densest returns the matching column with the most non-missing cells,
// breaking ties by declaration order. Used by the question analyses, which
// prefer the best-populated candidate over the first one.
func (m *Matcher) Densest(t *dataset.Table) (string, bool) {
	best := ""
	bestCount := -1
	for i, name := range t.Cols {
		if !m.Matches(name) {
			continue
		}
		count := 0
		for _, row := range t.Rows {
			if !dataset.IsMissing(row[i]) {
				count++
			}
		}
		if count > bestCount {
			best = name
			bestCount = count
		}
	}
	if bestCount < 0 {
		return "", false
	}
	return best, true
}

// Normalize lowercases a column name and strips every non-alphanumeric rune.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DefaultColorPatterns is the built-in synonym list for color-classification
// column names. The exact set is heuristic; callers can extend it through
// configuration.
var DefaultColorPatterns = []string{
	`\bcolou?r\b`,
	`b(?:lack)?[\s_]*(?:and[\s_]*)?[&/]?[\s_]*white`,
	`b&w`,
	`^iscolor$`,
	`^colortype$`,
	`^bw$`,
	`^bwflag$`,
}

// ColorMatcher builds the color-column matcher from the built-in synonym
// list plus any extra configured patterns.
func ColorMatcher(extra []string) (*Matcher, error) {
	patterns := make([]string, 0, len(DefaultColorPatterns)+len(extra))
	patterns = append(patterns, DefaultColorPatterns...)
	patterns = append(patterns, extra...)
	return New(patterns...)
}
