package walker

import (
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
)

const gitignoreFileName = ".gitignore"

// ignoreIndex tracks, per directory, the chain of .gitignore matchers that
// apply to entries inside it. filepath.WalkDir visits a directory before its
// contents, so a directory's chain is always recorded before any child asks
// for it. The index is only used from the single goroutine walking one root
// and needs no locking.
type ignoreIndex struct {
	disabled bool
	chains   map[string][]gitignore.IgnoreMatcher
}

func newIgnoreIndex(disabled bool) *ignoreIndex {
	return &ignoreIndex{
		disabled: disabled,
		chains:   make(map[string][]gitignore.IgnoreMatcher),
	}
}

// enterDirectory records the matcher chain for dir: the parent's chain plus
// a matcher for dir's own .gitignore, if one exists and parses.
// An unparsable .gitignore is skipped rather than failing the walk.
func (idx *ignoreIndex) enterDirectory(dir, parent string) {
	if idx.disabled {
		return
	}

	var chain []gitignore.IgnoreMatcher
	if parent != "" {
		chain = idx.chains[parent]
	}

	ignorePath := filepath.Join(dir, gitignoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		if matcher, err := gitignore.NewGitIgnore(ignorePath); err == nil {
			extended := make([]gitignore.IgnoreMatcher, 0, len(chain)+1)
			extended = append(extended, chain...)
			chain = append(extended, matcher)
		}
	}

	idx.chains[dir] = chain
}

// match reports whether the entry at path (whose parent directory is dir)
// is excluded by any .gitignore between the walk root and dir. Matchers are
// consulted innermost-last, which is sufficient here because a match at any
// level excludes the entry.
func (idx *ignoreIndex) match(dir, path string, isDir bool) bool {
	if idx.disabled {
		return false
	}
	for _, matcher := range idx.chains[dir] {
		if matcher.Match(path, isDir) {
			return true
		}
	}
	return false
}
