// Package walker finds the host pages a render run should process.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the largest page processed (4 MB).
const DefaultMaxFileSize int64 = 4 << 20

// Page is one host page found on disk.
type Page struct {
	Path    string // Path as given or discovered.
	RelPath string // Path relative to the walk root, slash separated.
	Size    int64
}

// Config controls Walk.
type Config struct {
	RootDir     string
	Include     []string // Glob patterns; empty includes every page.
	Exclude     []string // Glob patterns.
	MaxFileSize int64    // 0 uses DefaultMaxFileSize.
}

// IsPage reports whether name looks like an HTML page.
func IsPage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Walk returns every HTML page under cfg.RootDir that passes the filters,
// sorted by relative path.
func Walk(cfg Config) ([]Page, error) {
	root := cfg.RootDir
	if root == "" {
		root = "."
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var pages []Page
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsPage(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, cfg.Include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		pages = append(pages, Page{Path: path, RelPath: filepath.ToSlash(relPath), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].RelPath < pages[j].RelPath })
	return pages, nil
}

// Expand turns command-line arguments into pages. An argument may be a
// page, a directory (walked recursively) or a doublestar glob such as
// "site/**/*.html". Pages found through more than one argument are
// returned once.
func Expand(args []string, exclude []string) ([]Page, error) {
	seen := make(map[string]bool)
	var pages []Page
	add := func(p Page) {
		key := filepath.Clean(p.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		pages = append(pages, p)
	}

	for _, arg := range args {
		if hasMeta(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("walker: bad pattern %q: %w", arg, err)
			}
			base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
			for _, m := range matches {
				if !IsPage(m) {
					continue
				}
				rel, err := filepath.Rel(filepath.FromSlash(base), m)
				if err != nil {
					rel = m
				}
				if MatchesExclude(rel, exclude) {
					continue
				}
				info, err := os.Stat(m)
				if err != nil {
					continue
				}
				add(Page{Path: m, RelPath: filepath.ToSlash(rel), Size: info.Size()})
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("walker: %w", err)
		}
		if info.IsDir() {
			found, err := Walk(Config{RootDir: arg, Exclude: exclude})
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				add(p)
			}
			continue
		}
		add(Page{Path: arg, RelPath: filepath.ToSlash(filepath.Base(arg)), Size: info.Size()})
	}
	return pages, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
