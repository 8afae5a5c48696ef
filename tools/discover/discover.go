// Package discover selects the files a chunk packs, using doublestar globs
// relative to the pack.json directory.
package discover

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"xhcart/config"
	"xhcart/ds"
	"xhcart/xhgc/index"
	"xhcart/xherr"
)

type (
	// Discoverer is the capability the pipeline depends on.
	Discoverer interface {
		Discover(baseDir string, chunk config.Chunk) ([]index.File, error)
	}
	Glob struct{}
)

// Discover returns the chunk's files in lexicographic order of their path
// relative to baseDir.
func (Glob) Discover(baseDir string, chunk config.Chunk) ([]index.File, error) {
	fsys := os.DirFS(baseDir)
	matches, err := doublestar.Glob(fsys, chunk.Glob)
	if err != nil {
		return nil, xherr.Configuration(chunk.Glob, "invalid glob: %s", err)
	}

	relPaths := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := fs.Stat(fsys, match)
		if err != nil {
			return nil, xherr.IO(match, err)
		}
		if info.IsDir() {
			continue
		}
		excluded, err := IsExcluded(match, chunk.Exclude)
		if err != nil {
			return nil, errors.Wrap(err, "discover.Glob.Discover error")
		}
		if !excluded {
			relPaths = append(relPaths, match)
		}
	}
	if chunk.Order == "" || chunk.Order == config.OrderLex {
		sort.Strings(relPaths)
	}

	files := make([]index.File, 0, len(relPaths))
	for _, relPath := range relPaths {
		source := filepath.Join(baseDir, filepath.FromSlash(relPath))
		bs, err := os.ReadFile(source)
		if err != nil {
			return nil, xherr.IO(source, err)
		}
		files = append(
			files,
			index.File{
				Path:   PackagedPath(relPath, chunk.StripPrefix, chunk.NamePrefix),
				Size:   uint32(len(bs)),
				CRC32:  ds.Crc32(bs),
				Bytes:  bs,
				Source: source,
			},
		)
	}
	return files, nil
}

// PackagedPath strips stripPrefix from relPath, drops a leading slash and
// prepends namePrefix.
func PackagedPath(relPath string, stripPrefix string, namePrefix string) string {
	relPath = filepath.ToSlash(relPath)
	if stripPrefix != "" {
		relPath = strings.TrimPrefix(relPath, filepath.ToSlash(stripPrefix))
	}
	relPath = strings.TrimPrefix(relPath, "/")
	return namePrefix + relPath
}

// IsExcluded matches relPath against each pattern. Patterns without "**"
// match the trailing path components, so "*.psd" excludes "res/a.psd".
func IsExcluded(relPath string, patterns []string) (bool, error) {
	components := strings.Split(relPath, "/")
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		subject := relPath
		if !strings.Contains(pattern, "**") && !strings.HasPrefix(pattern, "/") {
			n := len(strings.Split(pattern, "/"))
			if n > len(components) {
				continue
			}
			subject = path.Join(components[len(components)-n:]...)
		}
		matched, err := doublestar.Match(strings.TrimPrefix(pattern, "/"), subject)
		if err != nil {
			return false, xherr.Configuration(pattern, "invalid exclude pattern: %s", err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
