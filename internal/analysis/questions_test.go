package analysis

import (
	"math"
	"testing"

	"github.com/KinoBytes/filmtally-cli/internal/dataset"
)

// questionsFixture mirrors the column layout of the IMDb movie_metadata
// export the pipeline usually runs against.
func questionsFixture() *dataset.Table {
	cols := []string{
		"movie_title", "director_name", "num_critic_for_reviews", "duration",
		"gross", "budget", "title_year", "imdb_score",
		"actor_1_name", "actor_1_facebook_likes", "actor_2_name", "actor_2_facebook_likes",
	}
	rows := [][]string{
		{"Avatar", "James Cameron", "723", "178", "760505847", "237000000", "2009", "7.9", "CCH Pounder", "1000", "Joel David Moore", "936"},
		{"Titanic", "James Cameron", "315", "194", "658672302", "200000000", "1997", "7.7", "Leonardo DiCaprio", "29000", "Kate Winslet", "14000"},
		{"The Terminator", "James Cameron", "202", "107", "38400000", "6500000", "1984", "8.1", "Arnold Schwarzenegger", "22000", "Linda Hamilton", "2800"},
		{"Sin City", "Frank Miller and Robert Rodriguez", "400", "124", "74103820", "40000000", "2005", "8.0", "Bruce Willis", "13000", "Mickey Rourke", "6000"},
		{"The Room", "Tommy Wiseau", "12", "99", "1800", "6000000", "2003", "3.7", "Tommy Wiseau", "300", "Juliette Danielle", "150"},
		{"Following", "Christopher Nolan", "95", "1h 10m", "48482", "6000", "1998", "7.5", "Jeremy Theobald", "45", "Guy Pearce", "12"},
		{"Memento", "Christopher Nolan", "558", "113", "25544867", "9000000", "2000", "8.4", "Guy Pearce", "11000", "Carrie-Anne Moss", "4500"},
		{"Unknown Reel", "", "nan", "", "", "", "1997", "", "", "", "", ""},
	}
	return dataset.NewTable(cols, rows)
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSplitDirectors(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"James Cameron", []string{"James Cameron"}},
		{"Frank Miller and Robert Rodriguez", []string{"Frank Miller", "Robert Rodriguez"}},
		{"Lana Wachowski|Lilly Wachowski", []string{"Lana Wachowski", "Lilly Wachowski"}},
		{"A & B / C", []string{"A", "B", "C"}},
		{"Paul Thomas Anderson", []string{"Paul Thomas Anderson"}},
		{"  ", nil},
	}
	for _, tc := range cases {
		got := SplitDirectors(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("SplitDirectors(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("SplitDirectors(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestMoviesPerDirector(t *testing.T) {
	got, col := MoviesPerDirector(questionsFixture())
	if col != "director_name" {
		t.Fatalf("column = %q, want director_name", col)
	}
	want := []DirectorCount{
		{Director: "James Cameron", Movies: 3},
		{Director: "Christopher Nolan", Movies: 2},
		{Director: "Frank Miller", Movies: 1},
		{Director: "Robert Rodriguez", Movies: 1},
		{Director: "Tommy Wiseau", Movies: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d directors, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("rank %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestMoviesPerDirector_NoColumn(t *testing.T) {
	tab := dataset.NewTable([]string{"movie_title"}, [][]string{{"Up"}})
	if got, col := MoviesPerDirector(tab); got != nil || col != "" {
		t.Fatalf("got %v, %q; want none", got, col)
	}
}

func TestLeastCriticized(t *testing.T) {
	got, countCol, titleCol := LeastCriticized(questionsFixture(), 3)
	if countCol != "num_critic_for_reviews" {
		t.Fatalf("count column = %q", countCol)
	}
	if titleCol != "movie_title" {
		t.Fatalf("title column = %q", titleCol)
	}
	want := []TitleValue{
		{Title: "The Room", Value: 12},
		{Title: "Following", Value: 95},
		{Title: "The Terminator", Value: 202},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("rank %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestLeastCriticized_VoteFallback(t *testing.T) {
	tab := dataset.NewTable(
		[]string{"movie_title", "imdb_votes"},
		[][]string{{"Up", "500"}, {"M", "90"}},
	)
	got, countCol, _ := LeastCriticized(tab, 5)
	if countCol != "imdb_votes" {
		t.Fatalf("count column = %q, want imdb_votes", countCol)
	}
	if len(got) != 2 || got[0].Title != "M" {
		t.Fatalf("got %v", got)
	}
}

func TestLongestRunning(t *testing.T) {
	got, col, _ := LongestRunning(questionsFixture(), 3)
	if col != "duration" {
		t.Fatalf("column = %q, want duration", col)
	}
	want := []TitleValue{
		{Title: "Titanic", Value: 194},
		{Title: "Avatar", Value: 178},
		{Title: "Sin City", Value: 124},
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("rank %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestGrossAndBudgetRankings(t *testing.T) {
	tab := questionsFixture()

	hi, grossCol, _ := HighestGross(tab, 2)
	if grossCol != "gross" {
		t.Fatalf("gross column = %q", grossCol)
	}
	if hi[0].Title != "Avatar" || hi[1].Title != "Titanic" {
		t.Fatalf("highest gross = %v", hi)
	}

	lo, _, _ := LowestGross(tab, 2)
	if lo[0].Title != "The Room" || lo[0].Value != 1800 || lo[1].Title != "Following" {
		t.Fatalf("lowest gross = %v", lo)
	}

	hb, budgetCol, _ := HighestBudget(tab, 2)
	if budgetCol != "budget" {
		t.Fatalf("budget column = %q", budgetCol)
	}
	if hb[0].Title != "Avatar" || hb[1].Title != "Titanic" {
		t.Fatalf("highest budget = %v", hb)
	}

	lb, _, _ := LowestBudget(tab, 2)
	if lb[0].Title != "Following" || lb[0].Value != 6000 || lb[1].Title != "The Room" {
		t.Fatalf("lowest budget = %v", lb)
	}
}

func TestReleaseYearExtrema(t *testing.T) {
	ex, col := ReleaseYearExtrema(questionsFixture())
	if col != "title_year" {
		t.Fatalf("column = %q, want title_year", col)
	}
	if ex == nil {
		t.Fatalf("no extrema")
	}
	if ex.MostYear != 1997 || ex.MostCount != 2 {
		t.Fatalf("most = %d/%d, want 1997/2", ex.MostYear, ex.MostCount)
	}
	// six years tie at one release; the earliest wins
	if ex.LeastYear != 1984 || ex.LeastCount != 1 {
		t.Fatalf("least = %d/%d, want 1984/1", ex.LeastYear, ex.LeastCount)
	}
}

func TestReleaseYearExtrema_NoParseableYears(t *testing.T) {
	tab := dataset.NewTable([]string{"title_year"}, [][]string{{"nan"}, {""}})
	ex, col := ReleaseYearExtrema(tab)
	if ex != nil || col != "title_year" {
		t.Fatalf("got %v, %q", ex, col)
	}
}

func TestBestReputationDirectors(t *testing.T) {
	got, dirCol, ratingCol := BestReputationDirectors(questionsFixture(), 2, 3)
	if dirCol != "director_name" || ratingCol != "imdb_score" {
		t.Fatalf("columns = %q, %q", dirCol, ratingCol)
	}
	// only Cameron has three rated titles, so the threshold relaxes to two
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0].Director != "Christopher Nolan" || got[0].Movies != 2 || !almostEqual(got[0].AvgRating, 7.95) {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Director != "James Cameron" || got[1].Movies != 3 || !almostEqual(got[1].AvgRating, 7.9) {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestBestReputationDirectors_RelaxesToOne(t *testing.T) {
	got, _, _ := BestReputationDirectors(questionsFixture(), 5, 3)
	if len(got) != 4 {
		t.Fatalf("got %d directors, want 4: %v", len(got), got)
	}
	// credit cells group verbatim; the joint credit is its own entry
	if got[0].Director != "Frank Miller and Robert Rodriguez" || !almostEqual(got[0].AvgRating, 8.0) {
		t.Fatalf("first = %+v", got[0])
	}
	if got[3].Director != "Tommy Wiseau" {
		t.Fatalf("last = %+v", got[3])
	}
}

func TestRankActors(t *testing.T) {
	res := RankActors(questionsFixture(), 3)
	if len(res.NameCols) != 2 || res.NameCols[0] != "actor_1_name" || res.NameCols[1] != "actor_2_name" {
		t.Fatalf("name columns = %v", res.NameCols)
	}
	if res.RatingCol != "imdb_score" {
		t.Fatalf("rating column = %q", res.RatingCol)
	}

	if res.ByCount[0] != (ActorCount{Actor: "Guy Pearce", Movies: 2}) {
		t.Fatalf("by count = %v", res.ByCount)
	}
	if res.ByCount[1].Actor != "Arnold Schwarzenegger" || res.ByCount[2].Actor != "Bruce Willis" {
		t.Fatalf("single-credit tie order = %v", res.ByCount)
	}

	wantLikes := []ActorLikes{
		{Actor: "Leonardo DiCaprio", Likes: 29000},
		{Actor: "Arnold Schwarzenegger", Likes: 22000},
		{Actor: "Kate Winslet", Likes: 14000},
	}
	for i, w := range wantLikes {
		if res.ByLikes[i] != w {
			t.Errorf("by likes %d = %+v, want %+v", i, res.ByLikes[i], w)
		}
	}

	wantBest := []ActorBest{
		{Actor: "Carrie-Anne Moss", Movie: "Memento", Rating: 8.4},
		{Actor: "Guy Pearce", Movie: "Memento", Rating: 8.4},
		{Actor: "Arnold Schwarzenegger", Movie: "The Terminator", Rating: 8.1},
	}
	for i, w := range wantBest {
		if res.ByBest[i] != w {
			t.Errorf("by best %d = %+v, want %+v", i, res.ByBest[i], w)
		}
	}
}

func TestRankActors_NoActorColumns(t *testing.T) {
	tab := dataset.NewTable([]string{"movie_title"}, [][]string{{"Up"}})
	res := RankActors(tab, 3)
	if res.NameCols != nil || res.ByCount != nil || res.ByLikes != nil || res.ByBest != nil {
		t.Fatalf("expected empty rankings, got %+v", res)
	}
}
