package service

import "testing"

func TestLanguageCatalogSearch(t *testing.T) {
	catalog := NewLanguageCatalog()

	all := catalog.Search("")
	if len(all) != 57 {
		t.Fatalf("Expected 57 languages, got %d", len(all))
	}
	if star := catalog.Search("*"); len(star) != len(all) {
		t.Errorf("Expected wildcard to return full catalog, got %d", len(star))
	}

	tests := []struct {
		query string
		want  int
	}{
		{"spanish", 1},
		{"SPANISH", 1},
		{"he", 1},
		{"nor", 1},
		{"zz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := catalog.Search(tt.query)
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d results, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestLanguageCatalogSupported(t *testing.T) {
	catalog := NewLanguageCatalog()

	if !catalog.Supported("en") {
		t.Error("Expected en to be supported")
	}
	if !catalog.Supported(" EN ") {
		t.Error("Expected case and whitespace insensitive match")
	}
	if catalog.Supported("xx") {
		t.Error("Expected xx to be unsupported")
	}
	if catalog.Supported("") {
		t.Error("Expected empty code to be unsupported")
	}
}
