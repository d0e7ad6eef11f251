package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/KinoBytes/filmtally-cli/internal/columns"
	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

// Column synonym matchers for the supplementary questions. Unlike the color
// heuristic these pick the best-populated candidate, since question columns
// are often duplicated across exports with different fill rates.
var (
	titleMatcher    = columns.MustNew(`^title$`, `movie[_\s]?title`, `\btitle\b`, `movie`, `name$`)
	directorMatcher = columns.MustNew(`director`)

	criticMatchers = []*columns.Matcher{
		columns.MustNew(`critic.*review`, `num.*critic`, `reviews? \(critic\)`, `critic_reviews`, `metacritic.*reviews`),
		columns.MustNew(`\breviews?\b`, `review_count`, `num_reviews`),
		columns.MustNew(`\bvotes?\b`, `imdb.*votes`, `user.*votes`),
	}

	runtimeMatcher     = columns.MustNew(`runtime`, `duration`, `length`, `running.?time`, `mins?`, `minutes?`, `time$`)
	grossMatcher       = columns.MustNew(`\bgross\b`, `revenue`, `box.?office`, `world.*gross`, `domestic.*gross`)
	budgetMatcher      = columns.MustNew(`\bbudget\b`, `production.*budget`, `cost`)
	yearMatcher        = columns.MustNew(`\btitle[_\s]?year\b`, `release.*year`, `\byear\b`)
	ratingMatcher      = columns.MustNew(`imdb.*score`, `\brating\b`, `\bscore\b`, `metascore`, `metacritic`, `tomato.*meter`)
	actorRatingMatcher = columns.MustNew(`imdb.*score`, `\brating\b`, `\bscore\b`)
	actorNameMatcher   = columns.MustNew(`\bactor.*name\b`, `\bstar.*name\b`, `\bcast.*name\b`)

	facebookLikesPat = regexp.MustCompile(`facebook.*likes`)
	actorIndexPat    = regexp.MustCompile(`actor[_\s]*([0-9]+).*name`)

	andSep   = regexp.MustCompile(`(?i)\s+and\s+`)
	punctSep = regexp.MustCompile(`[\/\|&;]`)
)

// TitleValue pairs a movie title with one numeric metric.
type TitleValue struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

// DirectorCount is one director with the number of credited titles.
type DirectorCount struct {
	Director string `json:"director"`
	Movies   int    `json:"movies"`
}

// DirectorRating is one director with the average rating over their titles.
type DirectorRating struct {
	Director  string  `json:"director"`
	AvgRating float64 `json:"avg_rating"`
	Movies    int     `json:"movies"`
}

// YearExtrema holds the most and least productive release years.
type YearExtrema struct {
	MostYear   int `json:"most_year"`
	MostCount  int `json:"most_count"`
	LeastYear  int `json:"least_year"`
	LeastCount int `json:"least_count"`
}

// ActorCount is one actor with an appearance count.
type ActorCount struct {
	Actor  string `json:"actor"`
	Movies int    `json:"movies"`
}

// ActorLikes is one actor with the highest Facebook-likes figure observed.
type ActorLikes struct {
	Actor string  `json:"actor"`
	Likes float64 `json:"likes"`
}

// ActorBest is one actor with their best-rated movie.
type ActorBest struct {
	Actor  string  `json:"actor"`
	Movie  string  `json:"movie"`
	Rating float64 `json:"rating"`
}

// ActorRankings bundles the three actor orderings.
type ActorRankings struct {
	ByCount   []ActorCount `json:"by_count,omitempty"`
	ByLikes   []ActorLikes `json:"by_likes,omitempty"`
	ByBest    []ActorBest  `json:"by_best,omitempty"`
	NameCols  []string     `json:"name_columns,omitempty"`
	RatingCol string       `json:"rating_column,omitempty"`
}

// titleColumn picks the display-title column, falling back to the first
// column when nothing looks like a title.
func titleColumn(t *dataset.Table) string {
	if name, ok := titleMatcher.Densest(t); ok {
		return name
	}
	if len(t.Cols) > 0 {
		return t.Cols[0]
	}
	return ""
}

// SplitDirectors breaks a credit cell like "A and B / C" into names.
func SplitDirectors(cell string) []string {
	s := andSep.ReplaceAllString(cell, ",")
	s = punctSep.ReplaceAllString(s, ",")
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// MoviesPerDirector splits multi-director cells and counts titles per
// director, most prolific first. The detected column comes back for
// reporting; empty means no director column exists.
func MoviesPerDirector(t *dataset.Table) ([]DirectorCount, string) {
	col, ok := directorMatcher.Densest(t)
	if !ok {
		return nil, ""
	}
	idx, _ := t.ColumnIndex(col)
	counts := map[string]int{}
	var order []string
	for _, row := range t.Rows {
		if dataset.IsMissing(row[idx]) {
			continue
		}
		for _, name := range SplitDirectors(row[idx]) {
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	out := make([]DirectorCount, 0, len(order))
	for _, name := range order {
		out = append(out, DirectorCount{Director: name, Movies: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Movies != out[j].Movies {
			return out[i].Movies > out[j].Movies
		}
		return out[i].Director < out[j].Director
	})
	return out, col
}

// LeastCriticized returns the n movies with the fewest critic counts. The
// column falls back from critic-review names to generic review names to
// vote names; within one group the best-populated candidate wins.
func LeastCriticized(t *dataset.Table, n int) ([]TitleValue, string, string) {
	titleCol := titleColumn(t)
	countCol := ""
	for _, m := range criticMatchers {
		if col, ok := m.Densest(t); ok {
			countCol = col
			break
		}
	}
	if countCol == "" {
		return nil, "", titleCol
	}
	rows := titleMetricRows(t, titleCol, countCol, ParseNumber)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	return head(rows, n), countCol, titleCol
}

// LongestRunning returns the n movies with the longest parsed runtime.
func LongestRunning(t *dataset.Table, n int) ([]TitleValue, string, string) {
	titleCol := titleColumn(t)
	col, ok := runtimeMatcher.Densest(t)
	if !ok {
		return nil, "", titleCol
	}
	rows := titleMetricRows(t, titleCol, col, ParseMinutes)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return head(rows, n), col, titleCol
}

// HighestGross returns the n movies with the largest gross figure.
func HighestGross(t *dataset.Table, n int) ([]TitleValue, string, string) {
	return topByMetric(t, grossMatcher, n, false)
}

// LowestGross returns the n movies with the smallest gross figure.
func LowestGross(t *dataset.Table, n int) ([]TitleValue, string, string) {
	return topByMetric(t, grossMatcher, n, true)
}

// HighestBudget returns the n most expensive productions.
func HighestBudget(t *dataset.Table, n int) ([]TitleValue, string, string) {
	return topByMetric(t, budgetMatcher, n, false)
}

// LowestBudget returns the n cheapest productions.
func LowestBudget(t *dataset.Table, n int) ([]TitleValue, string, string) {
	return topByMetric(t, budgetMatcher, n, true)
}

func topByMetric(t *dataset.Table, m *columns.Matcher, n int, smallest bool) ([]TitleValue, string, string) {
	titleCol := titleColumn(t)
	col, ok := m.Densest(t)
	if !ok {
		return nil, "", titleCol
	}
	rows := titleMetricRows(t, titleCol, col, ParseNumber)
	sort.SliceStable(rows, func(i, j int) bool {
		if smallest {
			return rows[i].Value < rows[j].Value
		}
		return rows[i].Value > rows[j].Value
	})
	return head(rows, n), col, titleCol
}

func titleMetricRows(t *dataset.Table, titleCol, metricCol string, parse func(string) (float64, bool)) []TitleValue {
	ti, ok := t.ColumnIndex(titleCol)
	if !ok {
		ti = 0
	}
	mi, ok := t.ColumnIndex(metricCol)
	if !ok {
		return nil
	}
	out := make([]TitleValue, 0, t.Len())
	for _, row := range t.Rows {
		v, ok := parse(row[mi])
		if !ok {
			continue
		}
		out = append(out, TitleValue{Title: strings.TrimSpace(row[ti]), Value: v})
	}
	return out
}

// ReleaseYearExtrema counts releases per year and returns both extremes;
// ties resolve to the earliest year. The column name comes back separately
// so callers can distinguish "no year column" (empty) from "column found
// but no parseable years" (nil extrema, non-empty column).
func ReleaseYearExtrema(t *dataset.Table) (*YearExtrema, string) {
	col, ok := yearMatcher.Densest(t)
	if !ok {
		return nil, ""
	}
	idx, _ := t.ColumnIndex(col)
	counts := map[int]int{}
	for _, row := range t.Rows {
		if y, ok := ParseYear(row[idx]); ok {
			counts[y]++
		}
	}
	if len(counts) == 0 {
		return nil, col
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)
	first := years[0]
	ex := &YearExtrema{MostYear: first, MostCount: counts[first], LeastYear: first, LeastCount: counts[first]}
	for _, y := range years[1:] {
		c := counts[y]
		if c > ex.MostCount {
			ex.MostYear, ex.MostCount = y, c
		}
		if c < ex.LeastCount {
			ex.LeastYear, ex.LeastCount = y, c
		}
	}
	return ex, col
}

// BestReputationDirectors averages ratings per director and ranks them.
// Directors need minMovies rated titles to qualify; the threshold relaxes
// toward one until at least top directors remain. Multi-director credits
// count as a single combined entry, matching how the cells are grouped.
func BestReputationDirectors(t *dataset.Table, top, minMovies int) ([]DirectorRating, string, string) {
	dirCol, dok := directorMatcher.Densest(t)
	ratingCol, rok := ratingMatcher.Densest(t)
	if !dok || !rok {
		return nil, dirCol, ratingCol
	}
	di, _ := t.ColumnIndex(dirCol)
	ri, _ := t.ColumnIndex(ratingCol)

	type acc struct {
		sum   float64
		count int
	}
	byDir := map[string]*acc{}
	var order []string
	for _, row := range t.Rows {
		rating, ok := ParseNumber(row[ri])
		if !ok {
			continue
		}
		name := strings.TrimSpace(row[di])
		if name == "" || dataset.IsMissing(name) {
			continue
		}
		a := byDir[name]
		if a == nil {
			a = &acc{}
			byDir[name] = a
			order = append(order, name)
		}
		a.sum += rating
		a.count++
	}

	all := make([]DirectorRating, 0, len(order))
	for _, name := range order {
		a := byDir[name]
		all = append(all, DirectorRating{Director: name, AvgRating: a.sum / float64(a.count), Movies: a.count})
	}

	cur := minMovies
	var subset []DirectorRating
	for {
		subset = subset[:0]
		for _, d := range all {
			if d.Movies >= cur {
				subset = append(subset, d)
			}
		}
		if len(subset) >= top || cur <= 1 {
			break
		}
		cur--
	}
	sort.SliceStable(subset, func(i, j int) bool {
		if subset[i].AvgRating != subset[j].AvgRating {
			return subset[i].AvgRating > subset[j].AvgRating
		}
		if subset[i].Movies != subset[j].Movies {
			return subset[i].Movies > subset[j].Movies
		}
		return subset[i].Director < subset[j].Director
	})
	return head(subset, top), dirCol, ratingCol
}

// RankActors builds the three actor orderings: appearance counts, highest
// observed Facebook likes, and best-rated movie per actor.
func RankActors(t *dataset.Table, top int) *ActorRankings {
	res := &ActorRankings{}
	for _, c := range t.Cols {
		if actorNameMatcher.Matches(c) {
			res.NameCols = append(res.NameCols, c)
		}
	}
	if len(res.NameCols) == 0 {
		for _, c := range []string{"actor_1_name", "actor_2_name", "actor_3_name"} {
			if _, ok := t.ColumnIndex(c); ok {
				res.NameCols = append(res.NameCols, c)
			}
		}
	}
	if len(res.NameCols) == 0 {
		return res
	}

	titleCol := titleColumn(t)
	ti, ok := t.ColumnIndex(titleCol)
	if !ok {
		ti = 0
	}
	ratingCol, rok := actorRatingMatcher.Densest(t)
	ri := -1
	if rok {
		res.RatingCol = ratingCol
		ri, _ = t.ColumnIndex(ratingCol)
	}

	type appearance struct {
		actor     string
		title     string
		likes     float64
		hasLikes  bool
		rating    float64
		hasRating bool
	}
	var apps []appearance
	for _, nameCol := range res.NameCols {
		ni, _ := t.ColumnIndex(nameCol)
		li := likesColumnFor(t, nameCol)
		for _, row := range t.Rows {
			actor := strings.TrimSpace(row[ni])
			if dataset.IsMissing(actor) {
				continue
			}
			app := appearance{actor: actor, title: strings.TrimSpace(row[ti])}
			if li >= 0 {
				if v, ok := ParseNumber(row[li]); ok {
					app.likes = v
					app.hasLikes = true
				}
			}
			if ri >= 0 {
				if v, ok := ParseNumber(row[ri]); ok {
					app.rating = v
					app.hasRating = true
				}
			}
			apps = append(apps, app)
		}
	}

	counts := map[string]int{}
	var countOrder []string
	for _, a := range apps {
		if _, seen := counts[a.actor]; !seen {
			countOrder = append(countOrder, a.actor)
		}
		counts[a.actor]++
	}
	byCount := make([]ActorCount, 0, len(countOrder))
	for _, name := range countOrder {
		byCount = append(byCount, ActorCount{Actor: name, Movies: counts[name]})
	}
	sort.SliceStable(byCount, func(i, j int) bool {
		if byCount[i].Movies != byCount[j].Movies {
			return byCount[i].Movies > byCount[j].Movies
		}
		return byCount[i].Actor < byCount[j].Actor
	})
	res.ByCount = head(byCount, top)

	likesMax := map[string]float64{}
	var likesOrder []string
	for _, a := range apps {
		if !a.hasLikes {
			continue
		}
		v, seen := likesMax[a.actor]
		if !seen {
			likesOrder = append(likesOrder, a.actor)
			likesMax[a.actor] = a.likes
		} else if a.likes > v {
			likesMax[a.actor] = a.likes
		}
	}
	byLikes := make([]ActorLikes, 0, len(likesOrder))
	for _, name := range likesOrder {
		byLikes = append(byLikes, ActorLikes{Actor: name, Likes: likesMax[name]})
	}
	sort.SliceStable(byLikes, func(i, j int) bool {
		if byLikes[i].Likes != byLikes[j].Likes {
			return byLikes[i].Likes > byLikes[j].Likes
		}
		return byLikes[i].Actor < byLikes[j].Actor
	})
	res.ByLikes = head(byLikes, top)

	bestBy := map[string]ActorBest{}
	var bestOrder []string
	for _, a := range apps {
		if !a.hasRating {
			continue
		}
		cur, seen := bestBy[a.actor]
		if !seen {
			bestOrder = append(bestOrder, a.actor)
			bestBy[a.actor] = ActorBest{Actor: a.actor, Movie: a.title, Rating: a.rating}
		} else if a.rating > cur.Rating {
			bestBy[a.actor] = ActorBest{Actor: a.actor, Movie: a.title, Rating: a.rating}
		}
	}
	byBest := make([]ActorBest, 0, len(bestOrder))
	for _, name := range bestOrder {
		byBest = append(byBest, bestBy[name])
	}
	sort.SliceStable(byBest, func(i, j int) bool {
		if byBest[i].Rating != byBest[j].Rating {
			return byBest[i].Rating > byBest[j].Rating
		}
		return byBest[i].Actor < byBest[j].Actor
	})
	res.ByBest = head(byBest, top)
	return res
}

// likesColumnFor locates the Facebook-likes column paired with one actor
// name column, e.g. actor_1_name -> actor_1_facebook_likes.
func likesColumnFor(t *dataset.Table, nameCol string) int {
	m := actorIndexPat.FindStringSubmatch(strings.ToLower(nameCol))
	if m == nil {
		return -1
	}
	if i, ok := t.ColumnIndex(fmt.Sprintf("actor_%s_facebook_likes", m[1])); ok {
		return i
	}
	for i, c := range t.Cols {
		lower := strings.ToLower(c)
		if facebookLikesPat.MatchString(lower) && strings.Contains(lower, m[1]) {
			return i
		}
	}
	return -1
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
