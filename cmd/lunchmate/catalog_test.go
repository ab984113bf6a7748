package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogInspect_BuiltIn(t *testing.T) {
	out, err := runCLI(t, "catalog", "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "김밥천국")
	assert.Contains(t, out, "12 restaurants")
	assert.Contains(t, out, "korean 3")
}

func TestCatalogInspect_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `restaurants:
  - id: a1
    name: 국밥집
    type: korean
    price: low
    distance: 2
    rating: 4.1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := runCLI(t, "catalog", "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "국밥집")
	assert.Contains(t, out, "1 restaurants, korean 1")
}

func TestCatalogInspect_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name"), 0o600))

	_, err := runCLI(t, "catalog", "inspect", path)
	assert.Error(t, err)
}
