// Package picker chooses the next file a walk visits.
//
// Files are drawn from a shuffled bag: every matching file is visited once per
// cycle, then the directory is rescanned and the bag reshuffled. A cycle never
// starts with the file that ended the previous one.
package picker

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/osmike/walker/internal/config"
	errs "github.com/osmike/walker/internal/error"
)

// Pick is one visited file.
type Pick struct {
	Path  string
	Index int // 1-based position within the current cycle.
	Total int // Files in the current cycle.
}

// Picker walks a directory tree in shuffled order. Safe for concurrent use.
type Picker struct {
	root    string
	pattern string

	mu   sync.Mutex
	rng  *rand.Rand
	bag  []string
	pos  int
	last string
}

// New creates a picker over root, visiting files whose base name matches pattern.
func New(root, pattern string) (*Picker, error) {
	return NewSeeded(root, pattern, rand.Uint64())
}

// NewSeeded is New with a fixed shuffle seed.
func NewSeeded(root, pattern string, seed uint64) (*Picker, error) {
	if root == "" {
		return nil, errs.ErrEmptyDir
	}
	if _, err := config.PatternMatch(pattern, "x"); err != nil {
		return nil, errs.New(errs.ErrInvalidConfig, fmt.Sprintf("pattern %q: %v", pattern, err))
	}
	return &Picker{
		root:    root,
		pattern: pattern,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Next returns the next file to visit. Files deleted since the last scan are
// skipped. It fails with ErrNothingToVisit when no file matches.
func (p *Picker) Next() (Pick, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for refilled := false; ; refilled = true {
		for p.pos < len(p.bag) {
			path := p.bag[p.pos]
			p.pos++
			if _, err := os.Stat(path); err != nil {
				continue
			}
			p.last = path
			return Pick{Path: path, Index: p.pos, Total: len(p.bag)}, nil
		}
		if refilled {
			break
		}
		if err := p.refill(); err != nil {
			return Pick{}, err
		}
	}
	return Pick{}, errs.New(errs.ErrNothingToVisit, p.root)
}

func (p *Picker) refill() error {
	files, err := scan(p.root, p.pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errs.New(errs.ErrNothingToVisit, fmt.Sprintf("no files matching %q in %s", p.pattern, p.root))
	}

	p.rng.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
	if len(files) > 1 && files[0] == p.last {
		n := len(files) - 1
		files[0], files[n] = files[n], files[0]
	}
	p.bag = files
	p.pos = 0
	return nil
}

// scan lists regular files under root matching pattern. Hidden directories are
// not descended into.
func scan(root, pattern string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, _ := config.PatternMatch(pattern, path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errs.New(errs.ErrNothingToVisit, fmt.Sprintf("scan %s: %v", root, err))
	}
	return files, nil
}
