package analysis

import (
	"strings"

	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

// ColorLabel classifies one movie record as color, black-and-white, or
// unknown.
type ColorLabel string

const (
	LabelColor         ColorLabel = "Color"
	LabelBlackAndWhite ColorLabel = "Black & White"
	LabelUnknown       ColorLabel = "Unknown"
)

// ReportOrder is the fixed label order used by every rendering of a tally.
var ReportOrder = []ColorLabel{LabelColor, LabelBlackAndWhite, LabelUnknown}

// ColorTally holds the per-label counts for one table. The three counts
// always sum to the table's row count.
type ColorTally struct {
	Color         int `json:"color"`
	BlackAndWhite int `json:"black_and_white"`
	Unknown       int `json:"unknown"`
}

// Total returns the number of classified rows.
func (t ColorTally) Total() int { return t.Color + t.BlackAndWhite + t.Unknown }

// Count returns the tally for one label.
func (t ColorTally) Count(l ColorLabel) int {
	switch l {
	case LabelColor:
		return t.Color
	case LabelBlackAndWhite:
		return t.BlackAndWhite
	default:
		return t.Unknown
	}
}

// ClassifyColor maps one raw cell value onto a ColorLabel. Matching is
// case-insensitive; the first applicable rule wins.
func ClassifyColor(cell string) ColorLabel {
	if dataset.IsMissing(cell) {
		return LabelUnknown
	}
	v := strings.ToLower(strings.TrimSpace(cell))
	switch {
	case strings.Contains(v, "black") && strings.Contains(v, "white"):
		return LabelBlackAndWhite
	case strings.Contains(v, "b&w") || strings.Contains(v, "b/w") || v == "bw":
		return LabelBlackAndWhite
	case strings.Contains(v, "mono") || strings.Contains(v, "grayscale") || strings.Contains(v, "greyscale"):
		return LabelBlackAndWhite
	case strings.Contains(v, "color") || strings.Contains(v, "colour"):
		return LabelColor
	default:
		return LabelUnknown
	}
}

// DetectColorColumn picks the color-classification column by name: the first
// match in declaration order, or ok=false when no name qualifies. It never
// fails on table content.
func DetectColorColumn(t *dataset.Table, m *columns.Matcher) (string, bool) {
	return m.First(t.Cols)
}

// TallyColors classifies every row of the table using the cells of colorCol.
// An empty or unknown column name sends every row to Unknown.
func TallyColors(t *dataset.Table, colorCol string) ColorTally {
	var tally ColorTally
	idx, ok := t.ColumnIndex(colorCol)
	if colorCol == "" || !ok {
		tally.Unknown = t.Len()
		return tally
	}
	for _, row := range t.Rows {
		switch ClassifyColor(row[idx]) {
		case LabelColor:
			tally.Color++
		case LabelBlackAndWhite:
			tally.BlackAndWhite++
		default:
			tally.Unknown++
		}
	}
	return tally
}
