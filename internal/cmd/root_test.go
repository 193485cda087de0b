package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := rootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.md"), "# Fine\n\n```go\nx := 1\n```\n")

	stdout, _, err := runCLI(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "checked 1 document(s): 0 failed, 0 warning(s)")
}

func TestCheckCommandFailsOnBrokenDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.md"), "# Fine\n")
	writeFile(t, filepath.Join(dir, "bad.md"), "# Broken\n\n```go\nnever closed\n")

	stdout, _, err := runCLI(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "FAIL")
	assert.Contains(t, stdout, "1 failed")
}

func TestCheckCommandStrict(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "warn.md"), "# Fine\n\n```\nno lang\n```\n")

	_, _, err := runCLI(t, "check", dir)
	require.NoError(t, err)

	_, _, err = runCLI(t, "check", "--strict", dir)
	require.Error(t, err)
}

func TestTocCommandPrints(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"), "# Top\n\n## Sub\n")

	stdout, _, err := runCLI(t, "toc", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "- [Top](#top)")
	assert.Contains(t, stdout, "  - [Sub](#sub)")
}

func TestTocCommandWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	writeFile(t, path, "<!-- toc -->\n<!-- /toc -->\n\n# Top\n")

	stdout, _, err := runCLI(t, "toc", "--write", "--no-backup", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "updated")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [Top](#top)")
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.md"), "# Transactions\n\n```sql\nBEGIN;\n```\n")

	stdout, _, err := runCLI(t, "list", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Transactions")
}

func TestPatternFlagFiltersFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.md"), "# Keep\n")
	writeFile(t, filepath.Join(dir, "skip.md"), "# Skip\n")

	stdout, _, err := runCLI(t, "toc", "--pattern", "keep.md", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "keep.md")
	assert.NotContains(t, stdout, "skip.md")
}
