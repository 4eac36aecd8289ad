package similarity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/khanglvm/movie-recommender/internal/catalog"
)

func exampleCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Movie{
		{Title: "avatar", Features: "action sci-fi cameron"},
		{Title: "titanic", Features: "romance drama cameron"},
		{Title: "alien", Features: "sci-fi horror scott"},
	})
}

func generatedCatalog(n int) *catalog.Catalog {
	movies := make([]catalog.Movie, n)
	for i := range movies {
		movies[i] = catalog.Movie{
			Title:    fmt.Sprintf("movie %02d", i),
			Features: fmt.Sprintf("genre%d actor%d director%d common", i%3, i%5, i%7),
		}
	}
	return catalog.New(movies)
}

func TestRecommendExample(t *testing.T) {
	e := NewEngine(exampleCatalog())

	res := e.Recommend("avatar")
	if res.Outcome != OutcomeOK {
		t.Fatalf("expected OutcomeOK, got %v (err=%v)", res.Outcome, res.Err)
	}

	want := []string{"Titanic", "Alien"}
	if !reflect.DeepEqual(res.Titles, want) {
		t.Errorf("Recommend(avatar) = %v, want %v", res.Titles, want)
	}
}

func TestRecommendCaseInsensitive(t *testing.T) {
	e := NewEngine(exampleCatalog())

	lower := e.Recommend("avatar")
	mixed := e.Recommend("Avatar")
	upper := e.Recommend(" AVATAR ")

	if !reflect.DeepEqual(lower.Titles, mixed.Titles) || !reflect.DeepEqual(lower.Titles, upper.Titles) {
		t.Errorf("expected identical results, got %v / %v / %v", lower.Titles, mixed.Titles, upper.Titles)
	}
}

func TestRecommendUnknownTitle(t *testing.T) {
	e := NewEngine(exampleCatalog())

	res := e.Recommend("jaws")
	if res.Outcome != OutcomeNotFound {
		t.Errorf("expected OutcomeNotFound, got %v", res.Outcome)
	}
	if res.Titles == nil || len(res.Titles) != 0 {
		t.Errorf("expected non-nil empty titles, got %#v", res.Titles)
	}
	if res.Err != nil {
		t.Errorf("lookup miss should not carry an error, got %v", res.Err)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	for _, c := range []*catalog.Catalog{catalog.Empty(), nil} {
		res := NewEngine(c).Recommend("avatar")
		if res.Outcome != OutcomeEmptyCatalog {
			t.Errorf("expected OutcomeEmptyCatalog, got %v", res.Outcome)
		}
		if len(res.Titles) != 0 {
			t.Errorf("expected no titles, got %v", res.Titles)
		}
	}
}

func TestRecommendDegenerateVocabulary(t *testing.T) {
	c := catalog.New([]catalog.Movie{
		{Title: "blank", Features: ""},
		{Title: "also blank", Features: "   "},
	})

	res := NewEngine(c).Recommend("blank")
	if res.Outcome != OutcomeComputeFailed {
		t.Fatalf("expected OutcomeComputeFailed, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, ErrEmptyVocabulary) || !IsDegenerate(res.Err) {
		t.Errorf("expected ErrEmptyVocabulary, got %v", res.Err)
	}
	if res.Titles == nil || len(res.Titles) != 0 {
		t.Errorf("expected non-nil empty titles, got %#v", res.Titles)
	}
}

func TestRecommendNeverIncludesQuery(t *testing.T) {
	c := generatedCatalog(30)
	e := NewEngine(c)

	for i := 0; i < c.Len(); i++ {
		title := c.Movie(i).Title
		res := e.Recommend(title)
		for _, got := range res.Titles {
			if strings.EqualFold(got, title) {
				t.Errorf("Recommend(%q) contains the query itself: %v", title, res.Titles)
			}
		}
	}
}

func TestRecommendLimit(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		limit int
		want  int
	}{
		{"large catalog", 30, 0, DefaultLimit},
		{"exactly twenty", 20, 0, DefaultLimit},
		{"small catalog", 10, 0, 9},
		{"custom limit", 30, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(generatedCatalog(tt.size), WithLimit(tt.limit))
			res := e.Recommend("movie 00")
			if len(res.Titles) != tt.want {
				t.Errorf("expected %d titles, got %d", tt.want, len(res.Titles))
			}
		})
	}
}

func TestRecommendExcludesTieAtOne(t *testing.T) {
	// "remake" has identical features and a lower index than "original".
	c := catalog.New([]catalog.Movie{
		{Title: "remake", Features: "heist crew vault"},
		{Title: "original", Features: "heist crew vault"},
		{Title: "other", Features: "heist"},
	})

	res := NewEngine(c).Recommend("original")
	want := []string{"Remake", "Other"}
	if !reflect.DeepEqual(res.Titles, want) {
		t.Errorf("Recommend(original) = %v, want %v", res.Titles, want)
	}
}

func TestRecommendDuplicateTitleIsAnotherMovie(t *testing.T) {
	c := catalog.New([]catalog.Movie{
		{Title: "avatar", Features: "action cameron"},
		{Title: "Avatar", Features: "action cameron"},
		{Title: "titanic", Features: "drama cameron"},
	})

	res := NewEngine(c).Recommend("avatar")
	want := []string{"Avatar", "Titanic"}
	if !reflect.DeepEqual(res.Titles, want) {
		t.Errorf("Recommend(avatar) = %v, want %v", res.Titles, want)
	}
}

func TestRecommendFullLimitWithManyDuplicates(t *testing.T) {
	movies := []catalog.Movie{{Title: "other", Features: "drama"}}
	for i := 0; i < 25; i++ {
		movies = append(movies, catalog.Movie{Title: "dup", Features: "action"})
	}

	res := NewEngine(catalog.New(movies)).Recommend("dup")
	if len(res.Titles) != DefaultLimit {
		t.Fatalf("expected %d titles, got %d: %v", DefaultLimit, len(res.Titles), res.Titles)
	}
	for _, title := range res.Titles {
		if title != "Dup" {
			t.Errorf("expected the other duplicates first, got %v", res.Titles)
			break
		}
	}
}

func TestRecommendZeroNormMovie(t *testing.T) {
	c := catalog.New([]catalog.Movie{
		{Title: "silent", Features: ""},
		{Title: "avatar", Features: "action"},
		{Title: "alien", Features: "horror"},
	})

	res := NewEngine(c).Recommend("silent")
	if res.Outcome != OutcomeOK {
		t.Fatalf("expected OutcomeOK, got %v", res.Outcome)
	}
	// Everything scores 0, so catalog order decides.
	if !reflect.DeepEqual(res.Titles, []string{"Avatar", "Alien"}) {
		t.Errorf("unexpected ranking: %v", res.Titles)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	e := NewEngine(generatedCatalog(40))

	first := e.Recommend("movie 07").Titles
	for i := 0; i < 5; i++ {
		if got := e.Recommend("movie 07").Titles; !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestPoliciesAgree(t *testing.T) {
	c := generatedCatalog(25)
	recompute := NewEngine(c, WithPolicy(PolicyRecompute))
	cached := NewEngine(c, WithPolicy(PolicyCached))

	for i := 0; i < c.Len(); i++ {
		title := c.Movie(i).Title
		a := recompute.Recommend(title).Titles
		b := cached.Recommend(title).Titles
		if !reflect.DeepEqual(a, b) {
			t.Errorf("policies disagree for %q: %v vs %v", title, a, b)
		}
	}
}

func TestCachedMatrixReused(t *testing.T) {
	e := NewEngine(exampleCatalog(), WithPolicy(PolicyCached))

	m1, err := e.Matrix()
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	m2, _ := e.Matrix()
	if m1 != m2 {
		t.Error("expected cached policy to reuse the matrix")
	}

	r := NewEngine(exampleCatalog())
	r1, _ := r.Matrix()
	r2, _ := r.Matrix()
	if r1 == r2 {
		t.Error("expected recompute policy to rebuild the matrix")
	}
}

func TestRecommendConcurrent(t *testing.T) {
	e := NewEngine(generatedCatalog(30), WithPolicy(PolicyCached))
	want := e.Recommend("movie 03").Titles

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Recommend("movie 03").Titles; !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent result differs: %v", got)
			}
		}()
	}
	wg.Wait()
}

func TestWordTokenizerChangesRanking(t *testing.T) {
	e := NewEngine(exampleCatalog(), WithTokenizer(NewWordTokenizer()))

	// "sci-fi" splits into two shared terms, lifting Alien above Titanic.
	res := e.Recommend("avatar")
	if !reflect.DeepEqual(res.Titles, []string{"Alien", "Titanic"}) {
		t.Errorf("unexpected ranking with word tokenizer: %v", res.Titles)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyRecompute, false},
		{"recompute", PolicyRecompute, false},
		{"cached", PolicyCached, false},
		{"lazy", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	if OutcomeNotFound.String() != "not_found" || OutcomeComputeFailed.String() != "compute_failed" {
		t.Error("unexpected outcome names")
	}
	if Outcome(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range outcome")
	}
}
