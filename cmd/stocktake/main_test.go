package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig writes a config file outside the data dir so a developer's own
// config never leaks into tests.
func testConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-level: error\n"), 0o600))
	return path
}

// runCLI executes one stocktake invocation against the file backend in dir.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", testConfig(t), "--backend", "file", "--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var idPattern = regexp.MustCompile(`\[([0-9a-f]{8})\]`)

func addItem(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dir, append([]string{"items", "add"}, args...)...)
	require.NoError(t, err)
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "output %q", out)
	return m[1]
}

func TestItemsCommands(t *testing.T) {
	dir := t.TempDir()

	id := addItem(t, dir, "Towels", "--count", "3", "--category", "laundry")

	out, err := runCLI(t, dir, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Towels")
	assert.Contains(t, out, "Laundry")

	out, err = runCLI(t, dir, "items", "inc", id)
	require.NoError(t, err)
	assert.Contains(t, out, "4")

	out, err = runCLI(t, dir, "items", "update", id, "--count", "0", "--category", "Bathroom")
	require.NoError(t, err)
	assert.Contains(t, out, "Bathroom")

	out, err = runCLI(t, dir, "items", "dec", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Towels 0")

	out, err = runCLI(t, dir, "items", "list", "--category", "laundry")
	require.NoError(t, err)
	assert.Contains(t, out, "No items found")

	_, err = runCLI(t, dir, "items", "rm", id)
	require.NoError(t, err)
	_, err = runCLI(t, dir, "items", "inc", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item not found")
}

func TestItemsCommands_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name          string
		args          []string
		errorContains string
	}{
		{"unknown category", []string{"items", "add", "Rice", "--category", "Garage"}, "category not found"},
		{"blank name", []string{"items", "add", "  "}, "invalid item name"},
		{"empty update", []string{"items", "update", "abcd"}, "nothing to update"},
		{"missing id", []string{"items", "rm", "ffffffff"}, "item not found"},
		{"unknown backend", []string{"--backend", "tape", "items", "list"}, "unknown storage backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestCategoriesCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "categories", "list")
	require.NoError(t, err)
	for _, name := range []string{"Laundry", "Electronics", "Pantry", "Other"} {
		assert.Contains(t, out, name)
	}

	_, err = runCLI(t, dir, "categories", "add", "Garage")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "categories", "add", "GARAGE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category already exists")

	addItem(t, dir, "Towels", "-n", "3", "-c", "Laundry")
	addItem(t, dir, "Rice", "-n", "0", "-c", "Pantry")

	out, err = runCLI(t, dir, "categories", "rename", "laundry", "Home")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed "Laundry" to "Home" (1 item)`)

	_, err = runCLI(t, dir, "categories", "rm", "Pantry")
	require.Error(t, err, "deleting a category with items needs a disposition")
	assert.Contains(t, err.Error(), "--reassign-to")

	_, err = runCLI(t, dir, "categories", "rm", "Pantry", "--reassign-to", "pantry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reassign target")

	out, err = runCLI(t, dir, "categories", "rm", "Pantry", "--reassign-to", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "moved 1 item to home")

	out, err = runCLI(t, dir, "items", "list", "-c", "Home")
	require.NoError(t, err)
	assert.Contains(t, out, "Towels")
	assert.Contains(t, out, "Rice")

	out, err = runCLI(t, dir, "categories", "rm", "Home", "--delete-items")
	require.NoError(t, err)
	assert.Contains(t, out, "and 2 items")

	out, err = runCLI(t, dir, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items found")
}

func TestSummaryAndExport(t *testing.T) {
	dir := t.TempDir()
	addItem(t, dir, "Towels", "-n", "3", "-c", "Laundry")
	addItem(t, dir, "Rice", "-n", "2", "-c", "Pantry")
	addItem(t, dir, "Beans", "-n", "1", "-c", "Pantry")

	out, err := runCLI(t, dir, "summary")
	require.NoError(t, err)
	assert.Regexp(t, `Laundry\s+1`, out)
	assert.Regexp(t, `Pantry\s+2`, out)
	assert.Regexp(t, `All\s+3`, out)
	assert.NotContains(t, out, "Office")

	out, err = runCLI(t, dir, "export")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "name", rows[0][1])

	path := filepath.Join(dir, "items.csv")
	_, err = runCLI(t, dir, "export", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestConfigFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKTAKE_BACKEND", "memory")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", testConfig(t), "--data-dir", dir, "items", "add", "Towels"})
	require.NoError(t, cmd.Execute())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "memory backend must not write to the data dir")
}
