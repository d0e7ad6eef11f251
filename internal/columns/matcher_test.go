package columns_test

import (
	"testing"

	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

func TestNew_BadPattern(t *testing.T) {
	if _, err := columns.New(`[unclosed`); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestMatches_NormalizedName(t *testing.T) {
	m := columns.MustNew(`^iscolor$`)
	if !m.Matches("Is_Color?") {
		t.Fatalf("expected normalized Is_Color? to match")
	}
	if m.Matches("colorful") {
		t.Fatalf("colorful should not match")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Is_Color?":       "iscolor",
		"  Black & White": "blackwhite",
		"title_year":      "titleyear",
	}
	for in, want := range cases {
		if got := columns.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFirst_DeclarationOrder(t *testing.T) {
	m, err := columns.ColorMatcher(nil)
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}
	name, ok := m.First([]string{"movie_title", "bw_flag", "color"})
	if !ok || name != "bw_flag" {
		t.Fatalf("First = %q, %v; want bw_flag", name, ok)
	}
	if _, ok := m.First([]string{"movie_title", "director_name"}); ok {
		t.Fatalf("expected no match")
	}
}

func TestColorMatcher_Defaults(t *testing.T) {
	m, err := columns.ColorMatcher(nil)
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}
	for _, name := range []string{"color", "Colour", "black_and_white", "B&W", "bw", "is_color", "ColorType"} {
		if !m.Matches(name) {
			t.Errorf("expected %q to match", name)
		}
	}
	for _, name := range []string{"director_name", "colorful", "tagline", "bweh"} {
		if m.Matches(name) {
			t.Errorf("expected %q not to match", name)
		}
	}
}

func TestColorMatcher_ExtraPatterns(t *testing.T) {
	m, err := columns.ColorMatcher([]string{`^film_stock$`})
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}
	if !m.Matches("film_stock") {
		t.Fatalf("extra pattern ignored")
	}
	if !m.Matches("color") {
		t.Fatalf("defaults dropped when extras are given")
	}
}

func TestDensest_PrefersPopulatedColumn(t *testing.T) {
	tab := dataset.NewTable(
		[]string{"color_note", "color"},
		[][]string{
			{"", "Color"},
			{"nan", "B&W"},
			{"Color", ""},
		},
	)
	m := columns.MustNew(`colou?r`)
	name, ok := m.Densest(tab)
	if !ok || name != "color" {
		t.Fatalf("Densest = %q, %v; want color", name, ok)
	}
}

func TestDensest_TieKeepsDeclarationOrder(t *testing.T) {
	tab := dataset.NewTable(
		[]string{"color_note", "color"},
		[][]string{{"Color", "B&W"}},
	)
	m := columns.MustNew(`colou?r`)
	name, ok := m.Densest(tab)
	if !ok || name != "color_note" {
		t.Fatalf("Densest = %q, %v; want color_note", name, ok)
	}
}
