package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

// Fixed result sizes for the supplementary questions.
const (
	leastCriticizedN    = 10
	longestRunningN     = 20
	grossTopN           = 5
	budgetTopN          = 3
	reputationTopN      = 5
	reputationMinMovies = 3
)

// Report is the result of one analysis run and the artifact written by
// --save. Questions is nil unless the full question set was requested.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Dataset     string       `json:"dataset"`
	Rows        int          `json:"rows"`
	ColorColumn string       `json:"color_column,omitempty"`
	Tally       ColorTally   `json:"tally"`
	Questions   *QuestionSet `json:"questions,omitempty"`
}

// QuestionSet collects the answers to the supplementary questions along
// with the columns each answer was computed from.
type QuestionSet struct {
	TitleColumn string `json:"title_column,omitempty"`

	DirectorColumn  string          `json:"director_column,omitempty"`
	UniqueDirectors int             `json:"unique_directors,omitempty"`
	TopDirectors    []DirectorCount `json:"top_directors,omitempty"`

	CriticizedColumn string       `json:"criticized_column,omitempty"`
	LeastCriticized  []TitleValue `json:"least_criticized,omitempty"`

	RuntimeColumn  string       `json:"runtime_column,omitempty"`
	LongestRunning []TitleValue `json:"longest_running,omitempty"`

	GrossColumn  string       `json:"gross_column,omitempty"`
	HighestGross []TitleValue `json:"highest_gross,omitempty"`
	LowestGross  []TitleValue `json:"lowest_gross,omitempty"`

	BudgetColumn  string       `json:"budget_column,omitempty"`
	HighestBudget []TitleValue `json:"highest_budget,omitempty"`
	LowestBudget  []TitleValue `json:"lowest_budget,omitempty"`

	YearColumn string       `json:"year_column,omitempty"`
	Years      *YearExtrema `json:"years,omitempty"`

	RatingColumn      string           `json:"rating_column,omitempty"`
	TopRatedDirectors []DirectorRating `json:"top_rated_directors,omitempty"`

	Actors *ActorRankings `json:"actors,omitempty"`
}

// BuildReport tallies the color column and, when full is set, answers the
// whole question set. top bounds the director and actor listings.
func BuildReport(t *dataset.Table, path string, m *columns.Matcher, full bool, top int) *Report {
	col, _ := DetectColorColumn(t, m)
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Dataset:     path,
		Rows:        t.Len(),
		ColorColumn: col,
		Tally:       TallyColors(t, col),
	}
	if full {
		r.Questions = buildQuestions(t, top)
	}
	return r
}

func buildQuestions(t *dataset.Table, top int) *QuestionSet {
	q := &QuestionSet{TitleColumn: titleColumn(t)}

	directors, dirCol := MoviesPerDirector(t)
	q.DirectorColumn = dirCol
	q.UniqueDirectors = len(directors)
	q.TopDirectors = head(directors, top)

	q.LeastCriticized, q.CriticizedColumn, _ = LeastCriticized(t, leastCriticizedN)
	q.LongestRunning, q.RuntimeColumn, _ = LongestRunning(t, longestRunningN)

	q.HighestGross, q.GrossColumn, _ = HighestGross(t, grossTopN)
	q.LowestGross, _, _ = LowestGross(t, grossTopN)

	q.HighestBudget, q.BudgetColumn, _ = HighestBudget(t, budgetTopN)
	q.LowestBudget, _, _ = LowestBudget(t, budgetTopN)

	q.Years, q.YearColumn = ReleaseYearExtrema(t)
	q.TopRatedDirectors, _, q.RatingColumn = BestReputationDirectors(t, reputationTopN, reputationMinMovies)
	q.Actors = RankActors(t, top)
	return q
}

// Console renders the report in the fixed terminal layout: a framed header,
// the color tally, then one block per answered question.
func (r *Report) Console() string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Loaded %s rows from: %s\n", humanize.Comma(int64(r.Rows)), r.Dataset)
	fmt.Fprintf(&b, "%s\n", rule)

	b.WriteString("\n[Q1] How many Black & White and Color movies are in the list?\n")
	col := r.ColorColumn
	if col == "" {
		col = "(none)"
	}
	fmt.Fprintf(&b, "Detected color column: %s\n", col)
	fmt.Fprintf(&b, "  Color:         %s\n", humanize.Comma(int64(r.Tally.Color)))
	fmt.Fprintf(&b, "  Black & White: %s\n", humanize.Comma(int64(r.Tally.BlackAndWhite)))
	fmt.Fprintf(&b, "  Unknown:       %s\n", humanize.Comma(int64(r.Tally.Unknown)))

	if r.Questions != nil {
		r.Questions.render(&b)
	}

	b.WriteString("\nDone.\n")
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}

func (q *QuestionSet) render(b *strings.Builder) {
	b.WriteString("\n[Q2] How many movies were produced by director in the list?\n")
	if q.DirectorColumn == "" || len(q.TopDirectors) == 0 {
		b.WriteString("  Could not find a 'director' column.\n")
	} else {
		fmt.Fprintf(b, "Detected director column: %s\n", q.DirectorColumn)
		fmt.Fprintf(b, "  Total unique directors: %s\n", humanize.Comma(int64(q.UniqueDirectors)))
		fmt.Fprintf(b, "  Top %d directors by number of movies:\n", len(q.TopDirectors))
		for _, d := range q.TopDirectors {
			fmt.Fprintf(b, "    %s: %d\n", d.Director, d.Movies)
		}
	}

	b.WriteString("\n[Q3] Which are the 10 less criticized movies in the list?\n")
	if q.CriticizedColumn == "" || len(q.LeastCriticized) == 0 {
		b.WriteString("  Could not find a suitable 'critic reviews / reviews / votes' column.\n")
	} else {
		fmt.Fprintf(b, "Detected count column: %s | title column: %s\n", q.CriticizedColumn, q.TitleColumn)
		for _, v := range q.LeastCriticized {
			fmt.Fprintf(b, "    %s  — %d\n", v.Title, int(v.Value))
		}
	}

	b.WriteString("\n[Q4] Which are the 20 longest-running movies in the list?\n")
	if q.RuntimeColumn == "" || len(q.LongestRunning) == 0 {
		b.WriteString("  Could not find a suitable 'runtime/duration' column.\n")
	} else {
		fmt.Fprintf(b, "Detected runtime column: %s | title column: %s\n", q.RuntimeColumn, q.TitleColumn)
		for _, v := range q.LongestRunning {
			fmt.Fprintf(b, "    %s  — %.0f min\n", v.Title, v.Value)
		}
	}

	b.WriteString("\n[Q5] Top 5 movies that raised more money (highest gross):\n")
	renderMoneyBlock(b, q.GrossColumn, "revenue", "  Could not find a 'gross/revenue/box office' column.", q.HighestGross)

	b.WriteString("\n[Q6] Top 5 movies that made the least money:\n")
	renderMoneyBlock(b, q.GrossColumn, "revenue", "  Could not find a 'gross/revenue/box office' column.", q.LowestGross)

	b.WriteString("\n[Q7] Top 3 movies that cost more to produce (highest budget):\n")
	renderMoneyBlock(b, q.BudgetColumn, "budget", "  Could not find a 'budget' column.", q.HighestBudget)

	b.WriteString("\n[Q8] Top 3 movies that cost less to produce (lowest budget):\n")
	renderMoneyBlock(b, q.BudgetColumn, "budget", "  Could not find a 'budget' column.", q.LowestBudget)

	b.WriteString("\n[Q9] Year with more movies released / year with less movies released:\n")
	if q.YearColumn == "" {
		b.WriteString("  Could not find a 'year' column.\n")
	} else {
		fmt.Fprintf(b, "Detected year column: %s\n", q.YearColumn)
		if q.Years != nil {
			fmt.Fprintf(b, "  Most releases:  %d — %s movies\n", q.Years.MostYear, humanize.Comma(int64(q.Years.MostCount)))
			fmt.Fprintf(b, "  Least releases: %d — %s movies\n", q.Years.LeastYear, humanize.Comma(int64(q.Years.LeastCount)))
		}
	}

	b.WriteString("\n[Q10] Top five best reputation directors (by average rating):\n")
	if q.DirectorColumn == "" || q.RatingColumn == "" || len(q.TopRatedDirectors) == 0 {
		b.WriteString("  Could not compute (need director and rating columns).\n")
	} else {
		fmt.Fprintf(b, "Detected director column: %s | rating column: %s\n", q.DirectorColumn, q.RatingColumn)
		for _, d := range q.TopRatedDirectors {
			fmt.Fprintf(b, "    %s: %.2f (over %d movies)\n", d.Director, d.AvgRating, d.Movies)
		}
	}

	b.WriteString("\n[Q11] Actor ranking\n")
	a := q.Actors
	if a == nil || len(a.NameCols) == 0 {
		b.WriteString("  Could not find actor name columns.\n")
		return
	}
	fmt.Fprintf(b, "Detected actor columns: %s\n", strings.Join(a.NameCols, ", "))

	b.WriteString("  a) By number of movies performed:\n")
	if len(a.ByCount) == 0 {
		b.WriteString("    No data.\n")
	} else {
		for _, v := range a.ByCount {
			fmt.Fprintf(b, "    %s: %d\n", v.Actor, v.Movies)
		}
	}

	b.WriteString("  b) By social media influence (max Facebook likes):\n")
	if len(a.ByLikes) == 0 {
		b.WriteString("    No Facebook-like data available.\n")
	} else {
		for _, v := range a.ByLikes {
			fmt.Fprintf(b, "    %s: %d\n", v.Actor, int(v.Likes))
		}
	}

	if a.RatingCol != "" {
		fmt.Fprintf(b, "  c) By best movie (highest rating from %s):\n", a.RatingCol)
	} else {
		b.WriteString("  c) By best movie (highest rating):\n")
	}
	if len(a.ByBest) == 0 {
		b.WriteString("    No ratings available.\n")
	} else {
		for _, v := range a.ByBest {
			fmt.Fprintf(b, "    %s: %q — %.1f\n", v.Actor, v.Movie, v.Rating)
		}
	}
}

func renderMoneyBlock(b *strings.Builder, col, label, missing string, rows []TitleValue) {
	if col == "" || len(rows) == 0 {
		b.WriteString(missing + "\n")
		return
	}
	fmt.Fprintf(b, "Detected %s column: %s\n", label, col)
	for _, v := range rows {
		fmt.Fprintf(b, "    %s  — %s\n", v.Title, humanize.Comma(int64(v.Value)))
	}
}
