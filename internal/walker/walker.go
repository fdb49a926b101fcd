// Package walker provides the traversal side of the pipeline: it walks one
// or more root directories in parallel and emits every regular file that
// matches the configured include globs, honoring .gitignore files and the
// hidden-entry policy along the way.
//
// The walker is a pure provider. It never opens the files it emits; deciding
// what to do with a file belongs to the inspector. Callbacks may be invoked
// concurrently from different root walks and must be safe for that. Each
// matching file is emitted exactly once, even when the supplied roots
// overlap.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Options configures traversal filtering.
type Options struct {
	// Globs is the list of include patterns. A file is emitted when any
	// pattern matches its base name or its root-relative path.
	Globs []string

	// Hidden includes dot-prefixed files and directories in the walk.
	Hidden bool

	// NoIgnore disables .gitignore handling entirely.
	NoIgnore bool
}

// Walker walks file trees and emits matching regular files.
type Walker struct {
	globs    []string
	hidden   bool
	noIgnore bool
}

// New validates the include patterns and constructs a Walker.
// An invalid glob is a configuration error: it is reported before any
// traversal begins rather than surfacing per-file during the walk.
func New(opts Options) (*Walker, error) {
	if len(opts.Globs) == 0 {
		return nil, fmt.Errorf("at least one include glob is required")
	}
	for _, pattern := range opts.Globs {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	}

	return &Walker{
		globs:    opts.Globs,
		hidden:   opts.Hidden,
		noIgnore: opts.NoIgnore,
	}, nil
}

// Walk traverses the given roots concurrently (one goroutine per root) and
// invokes onFile for every matching regular file and onError for every
// traversal failure. Traversal failures never abort the walk; they are
// reported and the walk continues with the remaining entries.
//
// Walk returns an error only for configuration-level problems: a root that
// does not exist or cannot be read. Such errors are detected up front,
// before any callback fires.
func (w *Walker) Walk(ctx context.Context, roots []string, onFile func(path string), onError func(err error)) error {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	// Roots come straight from the command line; an unusable root is fatal,
	// unlike errors encountered deeper in the tree.
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return fmt.Errorf("cannot access root path %s: %w", root, err)
		}
	}

	// Overlapping roots (".", "./sub") must not dispatch the same file twice.
	var seenMu sync.Mutex
	seen := make(map[string]struct{})

	emit := func(path string) {
		absolute, err := filepath.Abs(path)
		if err != nil {
			absolute = path
		}
		seenMu.Lock()
		_, duplicate := seen[absolute]
		if !duplicate {
			seen[absolute] = struct{}{}
		}
		seenMu.Unlock()
		if !duplicate {
			onFile(path)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, root := range roots {
		root := root
		group.Go(func() error {
			return w.walkRoot(groupCtx, root, emit, onError)
		})
	}

	return group.Wait()
}

// walkRoot walks a single root, maintaining a per-directory chain of
// .gitignore matchers as the walk descends.
func (w *Walker) walkRoot(ctx context.Context, root string, emit func(path string), onError func(err error)) error {
	ignores := newIgnoreIndex(w.noIgnore)

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			onError(fmt.Errorf("error accessing %s: %w", path, walkErr))
			return nil
		}

		isDir := entry.IsDir()

		if path == root {
			if isDir {
				ignores.enterDirectory(path, "")
				return nil
			}
			// A root naming a file directly is subject only to the globs;
			// hidden and ignore policies are for discovered entries.
			if entry.Type().IsRegular() && w.matchesGlobs(filepath.Dir(root), path, entry.Name()) {
				emit(path)
			}
			return nil
		}

		name := entry.Name()

		if !w.hidden && isHidden(name) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		parent := filepath.Dir(path)
		if ignores.match(parent, path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if isDir {
			ignores.enterDirectory(path, parent)
			return nil
		}

		// Symlinks, sockets and other non-regular entries never reach the
		// inspector.
		if !entry.Type().IsRegular() {
			return nil
		}

		if w.matchesGlobs(root, path, name) {
			emit(path)
		}
		return nil
	})
}

// matchesGlobs reports whether any include pattern matches the entry's base
// name or its root-relative slash path.
func (w *Walker) matchesGlobs(root, path, name string) bool {
	relative, err := filepath.Rel(root, path)
	if err != nil {
		relative = path
	}
	relative = filepath.ToSlash(relative)

	for _, pattern := range w.globs {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, relative); matched {
			return true
		}
	}
	return false
}

// isHidden reports whether a base name denotes a hidden entry.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
