package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

var numberToken = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseNumber extracts the first numeric token out of lenient cell text such
// as "$300,000,000" or "7.1/10". Thousands commas are stripped before the
// scan. ok=false when the cell holds no number.
func ParseNumber(cell string) (float64, bool) {
	if dataset.IsMissing(cell) {
		return 0, false
	}
	raw := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	tok := numberToken.FindString(raw)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var (
	hourMinutePat = regexp.MustCompile(`(\d+)\s*h(?:ours?)?\s*(\d+)?\s*(?:m|mins?|minutes?)?`)
	minutesPat    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:mins?|minutes?|m)\b`)
)

// ParseMinutes converts a runtime cell to minutes. Accepted forms: a plain
// positive number, "150 min" / "150m", "2h 30m" / "2 hours 30", and the
// colon notations "1:45" and "02:30:00". Hour-and-minute forms are tried
// before bare minute suffixes so "2h 30m" reads as 150, not 30.
func ParseMinutes(cell string) (float64, bool) {
	if dataset.IsMissing(cell) {
		return 0, false
	}
	s := strings.ToLower(strings.TrimSpace(cell))
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > 0 {
			return f, true
		}
		return 0, false
	}
	if strings.Contains(s, "h") {
		if m := hourMinutePat.FindStringSubmatch(s); m != nil {
			h, _ := strconv.ParseFloat(m[1], 64)
			var mm float64
			if m[2] != "" {
				mm, _ = strconv.ParseFloat(m[2], 64)
			}
			return h*60 + mm, true
		}
	}
	if m := minutesPat.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return f, true
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) == 2 || len(parts) == 3 {
			nums := make([]float64, len(parts))
			for i, p := range parts {
				f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
				if err != nil {
					nums = nil
					break
				}
				nums[i] = f
			}
			// hh:mm and hh:mm:ss both reduce to whole minutes
			if nums != nil {
				return nums[0]*60 + nums[1], true
			}
		}
	}
	return 0, false
}

// ParseYear reads a release-year cell, tolerating float exports ("2009.0").
func ParseYear(cell string) (int, bool) {
	f, ok := ParseNumber(cell)
	if !ok {
		return 0, false
	}
	return int(f), true
}
