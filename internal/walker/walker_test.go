package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// siteDir builds a small site tree and returns its root.
func siteDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"index.html",
		"about.htm",
		"style.css",
		"blog/post.html",
		"blog/draft-post.html",
		"node_modules/pkg/index.html",
		"deep/a/b/c.html",
	}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<html><body></body></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(pages []Page) string {
	var out []string
	for _, p := range pages {
		out = append(out, p.RelPath)
	}
	return strings.Join(out, ",")
}

func TestWalk(t *testing.T) {
	root := siteDir(t)

	pages, err := Walk(Config{RootDir: root})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	want := "about.htm,blog/draft-post.html,blog/post.html,deep/a/b/c.html,index.html"
	if got := relPaths(pages); got != want {
		t.Errorf("Walk() = %s, want %s", got, want)
	}
}

func TestWalkFilters(t *testing.T) {
	root := siteDir(t)

	pages, err := Walk(Config{RootDir: root, Include: []string{"blog/**"}, Exclude: []string{"draft-*"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := relPaths(pages); got != "blog/post.html" {
		t.Errorf("Walk() = %s", got)
	}
}

func TestWalkMaxFileSize(t *testing.T) {
	root := siteDir(t)
	big := filepath.Join(root, "big.html")
	if err := os.WriteFile(big, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	pages, err := Walk(Config{RootDir: root, MaxFileSize: 1024})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(relPaths(pages), "big.html") {
		t.Error("oversized page should be skipped")
	}
}

func TestExpand(t *testing.T) {
	root := siteDir(t)

	pages, err := Expand([]string{
		filepath.Join(root, "blog", "**", "*.html"),
		filepath.Join(root, "index.html"),
		filepath.Join(root, "blog"), // overlaps the glob
	}, []string{"draft-*"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got := relPaths(pages); got != "post.html,index.html" {
		t.Errorf("Expand() = %s", got)
	}
}

func TestExpandMissing(t *testing.T) {
	if _, err := Expand([]string{filepath.Join(t.TempDir(), "nope.html")}, nil); err == nil {
		t.Error("expected error for a missing page")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"blog/post.html", []string{"blog/**"}, true},
		{"blog/post.html", []string{"*.html"}, true},
		{"blog/post.html", []string{"docs/**"}, false},
		{"a/b/draft-x.html", []string{"draft-*"}, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
	if !MatchesInclude("x.html", nil) {
		t.Error("empty include list should include everything")
	}
	if MatchesExclude("x.html", nil) {
		t.Error("empty exclude list should exclude nothing")
	}
}
