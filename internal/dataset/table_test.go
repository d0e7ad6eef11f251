package dataset_test

import (
	"testing"

	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

func TestNewTable_HeaderNormalization(t *testing.T) {
	tab := dataset.NewTable(
		[]string{" a ", "", "a", "a"},
		[][]string{
			{"1"},
			{"1", "2", "3", "4", "5"},
		},
	)
	want := []string{"a", "column_2", "a.1", "a.2"}
	for i, col := range want {
		if tab.Cols[i] != col {
			t.Fatalf("column %d = %q, want %q", i, tab.Cols[i], col)
		}
	}
	if len(tab.Rows[0]) != 4 || tab.Rows[0][3] != "" {
		t.Fatalf("short row not padded: %v", tab.Rows[0])
	}
	if len(tab.Rows[1]) != 4 || tab.Rows[1][3] != "4" {
		t.Fatalf("long row not truncated: %v", tab.Rows[1])
	}
}

func TestTable_ColumnLookup(t *testing.T) {
	tab := dataset.NewTable(
		[]string{"color", "movie_title"},
		[][]string{{"Color", "Up"}, {"B&W", "M"}},
	)
	idx, ok := tab.ColumnIndex("movie_title")
	if !ok || idx != 1 {
		t.Fatalf("ColumnIndex = %d, %v", idx, ok)
	}
	if _, ok := tab.ColumnIndex("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
	vals := tab.Column("color")
	if len(vals) != 2 || vals[1] != "B&W" {
		t.Fatalf("Column = %v", vals)
	}
	if tab.Column("missing") != nil {
		t.Fatalf("expected nil for unknown column")
	}
	if tab.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tab.Len())
	}
}

func TestIsMissing(t *testing.T) {
	missing := []string{"", "  ", "nan", "NaN", "NONE", "null", "NA", "n/a", " N/A "}
	for _, v := range missing {
		if !dataset.IsMissing(v) {
			t.Errorf("expected %q to be missing", v)
		}
	}
	present := []string{"0", "Color", "false", "nana", "n/b"}
	for _, v := range present {
		if dataset.IsMissing(v) {
			t.Errorf("expected %q to be present", v)
		}
	}
}
