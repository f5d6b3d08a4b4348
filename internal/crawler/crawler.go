package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"constify/internal/config"
)

// Crawler resolves an input path into the ordered set of source files to
// process.
type Crawler struct {
	extensions []string
	ignored    []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(cfg *config.Config) *Crawler {
	return &Crawler{
		extensions: cfg.Scan.Extensions,
		ignored:    cfg.Scan.IgnoreDirs,
	}
}

// Resolve accepts a single file or a directory root. Directories are walked
// recursively; files are kept when their extension matches. The returned
// order is the walk order (lexical), which fixes the run's processing order.
func (c *Crawler) Resolve(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if c.matches(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if c.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Crawler) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.extensions {
		if ext == want {
			return true
		}
	}
	return false
}
