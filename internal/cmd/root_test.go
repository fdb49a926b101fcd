package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against args and returns combined output
// plus the execution error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestRootCommandRequiresGlob(t *testing.T) {
	_, err := execute(t, t.TempDir())
	assert.Error(t, err)
}

func TestRootCommandRejectsInvalidGlob(t *testing.T) {
	_, err := execute(t, "--glob", "[unclosed", t.TempDir())
	assert.Error(t, err)
}

func TestRootCommandRejectsMissingRoot(t *testing.T) {
	_, err := execute(t, "--glob", "*.txt", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRootCommandFixesFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"needs.txt":  "abc",
		"fine.txt":   "abc\n",
		"other.go":   "package other",
		"sub/in.txt": "xyz",
	})

	out, err := execute(t, "--glob", "*.txt", root)
	require.NoError(t, err)

	data, readErr := os.ReadFile(filepath.Join(root, "needs.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "abc\n", string(data))

	data, readErr = os.ReadFile(filepath.Join(root, "sub", "in.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "xyz\n", string(data))

	// Non-matching files stay untouched.
	data, readErr = os.ReadFile(filepath.Join(root, "other.go"))
	require.NoError(t, readErr)
	assert.Equal(t, "package other", string(data))

	assert.Contains(t, out, "glob: *.txt")
	assert.Contains(t, out, "total files: 3")
	assert.Contains(t, out, "updated files: 2")
}

func TestRootCommandDryRunDoesNotModify(t *testing.T) {
	root := writeTree(t, map[string]string{"needs.txt": "abc"})

	out, err := execute(t, "--glob", "*.txt", "--dry-run", root)
	require.NoError(t, err)

	data, readErr := os.ReadFile(filepath.Join(root, "needs.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "abc", string(data))

	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "to update")
	assert.Contains(t, out, "files to be updated: 1")
}

func TestRootCommandDryRunThenRealRunAgree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b\n",
		"c.txt": "c",
	})

	dryOut, err := execute(t, "--glob", "*.txt", "--dry-run", root)
	require.NoError(t, err)
	assert.Contains(t, dryOut, "files to be updated: 2")

	realOut, err := execute(t, "--glob", "*.txt", root)
	require.NoError(t, err)
	assert.Contains(t, realOut, "updated files: 2")

	// Idempotence: everything is up to date afterwards.
	finalOut, err := execute(t, "--glob", "*.txt", root)
	require.NoError(t, err)
	assert.Contains(t, finalOut, "updated files: 0")
	assert.Contains(t, finalOut, "total files: 3")
}

func TestRootCommandListShowsUpToDateFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"fine.txt": "abc\n"})

	out, err := execute(t, "--glob", "*.txt", "--list", root)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
	assert.Contains(t, out, "fine.txt")
}

func TestRootCommandUnreadableFileCausesNonZeroExit(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := writeTree(t, map[string]string{
		"sealed.txt":  "abc",
		"sibling.txt": "xyz",
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "sealed.txt"), 0000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "sealed.txt"), 0644) })

	out, err := execute(t, "--glob", "*.txt", root)
	assert.Error(t, err)
	assert.Contains(t, out, "error")

	// The sibling is still processed despite the failure.
	data, readErr := os.ReadFile(filepath.Join(root, "sibling.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "xyz\n", string(data))
}

func TestRootCommandHonorsConfigFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"fine.txt": "abc\n",
	})
	configPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("list: true\n"), 0644))

	out, err := execute(t, "--glob", "*.txt", "--config", configPath, root)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestRootCommandFlagsOverrideConfig(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":  "skipme.txt\n",
		"skipme.txt":  "abc",
		"checked.txt": "xyz\n",
	})
	configPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("no_ignore: false\n"), 0644))

	out, err := execute(t, "--glob", "*.txt", "--config", configPath, "--no-ignore", root)
	require.NoError(t, err)
	assert.Contains(t, out, "total files: 2")

	data, readErr := os.ReadFile(filepath.Join(root, "skipme.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "abc\n", string(data))
}

func TestRootCommandWritesRunLog(t *testing.T) {
	root := writeTree(t, map[string]string{"needs.txt": "abc"})
	logDir := filepath.Join(t.TempDir(), "logs")

	_, err := execute(t, "--glob", "*.txt", "--log-dir", logDir, root)
	require.NoError(t, err)

	entries, readErr := os.ReadDir(logDir)
	require.NoError(t, readErr)
	assert.NotEmpty(t, entries)
}

func TestRootCommandEmptyFileUpToDate(t *testing.T) {
	root := writeTree(t, map[string]string{"empty.txt": ""})

	out, err := execute(t, "--glob", "*.txt", root)
	require.NoError(t, err)
	assert.Contains(t, out, "total files: 1")
	assert.Contains(t, out, "updated files: 0")

	info, statErr := os.Stat(filepath.Join(root, "empty.txt"))
	require.NoError(t, statErr)
	assert.Zero(t, info.Size())
}
