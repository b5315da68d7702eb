package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	mdreader "github.com/alnah/go-mdreader"
	"github.com/alnah/go-mdreader/internal/fileutil"
	"github.com/alnah/go-mdreader/internal/hints"
)

// maxWorkers caps -w. Reading is CPU bound, so more workers than cores
// only adds scheduling overhead.
const maxWorkers = 64

// source is one document found on the command line.
type source struct {
	Path string // passed to the reader and reported in metadata
	Rel  string // path below its input root, used to name outputs
}

// discoverSources expands inputs into sources. Files are taken as given and
// must have a registered extension; directories are walked for files that
// do, skipping hidden directories. Each path is returned once.
func discoverSources(fs billy.Filesystem, inputs []string, reg *mdreader.Registry) ([]source, error) {
	var sources []source
	seen := make(map[string]bool)

	add := func(s source) {
		if !seen[s.Path] {
			seen[s.Path] = true
			sources = append(sources, s)
		}
	}

	for _, input := range inputs {
		if fileutil.IsURL(input) {
			return nil, fmt.Errorf("%w: remote sources are not supported: %s", ErrUsage, input)
		}

		info, err := fs.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}

		if !info.IsDir() {
			if _, ok := reg.ReaderFor(input); !ok {
				return nil, fmt.Errorf("%w: %s%s", mdreader.ErrNoReader, input, hints.ForUnknownExtension(reg.Extensions()))
			}
			add(source{Path: input, Rel: filepath.Base(input)})
			continue
		}

		err = util.Walk(fs, input, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if path != input && strings.HasPrefix(fi.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := reg.ReaderFor(path); !ok {
				return nil
			}

			rel, err := filepath.Rel(input, path)
			if err != nil {
				return err
			}
			add(source{Path: path, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", input, err)
		}
	}

	return sources, nil
}

func sourcePaths(sources []source) []string {
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.Path
	}
	return paths
}

// validateWorkers checks that the worker count is within valid range.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}
