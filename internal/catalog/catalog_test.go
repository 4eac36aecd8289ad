package catalog

import (
	"reflect"
	"testing"
)

func sampleCatalog() *Catalog {
	return New([]Movie{
		{Title: "Avatar", Features: "action sci-fi cameron"},
		{Title: "titanic", Features: "romance drama cameron"},
		{Title: "alien", Features: "sci-fi horror scott"},
		{Title: "avatar", Features: "duplicate row"},
	})
}

func TestNewLowercasesTitles(t *testing.T) {
	c := sampleCatalog()

	if c.Len() != 4 {
		t.Fatalf("expected 4 movies, got %d", c.Len())
	}
	if got := c.Movie(0).Title; got != "avatar" {
		t.Errorf("expected stored title 'avatar', got %q", got)
	}
}

func TestTitlesCapitalized(t *testing.T) {
	c := New([]Movie{
		{Title: "the dark knight"},
		{Title: "ALIEN"},
		{Title: "2001: a space odyssey"},
	})

	want := []string{"The dark knight", "Alien", "2001: a space odyssey"}
	if got := c.Titles(); !reflect.DeepEqual(got, want) {
		t.Errorf("Titles() = %v, want %v", got, want)
	}
}

func TestIndexOf(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name   string
		title  string
		want   int
		wantOK bool
	}{
		{"lower case", "titanic", 1, true},
		{"mixed case", "TiTaNiC", 1, true},
		{"surrounding space", "  alien ", 2, true},
		{"first match wins", "AVATAR", 0, true},
		{"missing", "jaws", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.IndexOf(tt.title)
			if ok != tt.wantOK {
				t.Fatalf("IndexOf(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("IndexOf(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}

func TestIndexOfExact(t *testing.T) {
	c := sampleCatalog()

	if i, ok := c.IndexOfExact("Avatar"); !ok || i != 0 {
		t.Errorf("expected exact 'Avatar' at 0, got %d (ok=%v)", i, ok)
	}
	if i, ok := c.IndexOfExact("avatar"); !ok || i != 3 {
		t.Errorf("expected exact 'avatar' at 3, got %d (ok=%v)", i, ok)
	}
	if _, ok := c.IndexOfExact("TITANIC"); ok {
		t.Error("expected case-sensitive lookup to miss")
	}
}

func TestFeaturesAligned(t *testing.T) {
	c := sampleCatalog()
	features := c.Features()

	if len(features) != c.Len() {
		t.Fatalf("expected %d features, got %d", c.Len(), len(features))
	}
	for i, f := range features {
		if f != c.Movie(i).Features {
			t.Errorf("features[%d] = %q, want %q", i, f, c.Movie(i).Features)
		}
	}

	// Mutating the returned slice must not leak into the catalog.
	features[0] = "changed"
	if c.Movie(0).Features == "changed" {
		t.Error("Features() exposed internal state")
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := Empty()

	if c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d movies", c.Len())
	}
	if titles := c.Titles(); titles == nil || len(titles) != 0 {
		t.Errorf("expected non-nil empty titles, got %#v", titles)
	}
	if _, ok := c.IndexOf("anything"); ok {
		t.Error("expected lookup miss on empty catalog")
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"avatar":          "Avatar",
		"the dark KNIGHT": "The dark knight",
		"éclair":          "Éclair",
		"9":               "9",
	}

	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
