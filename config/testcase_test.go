package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCase(t *testing.T, dir string, n int, contents string) {
	t.Helper()
	caseDir := filepath.Join(dir, "testcase"+strconv.Itoa(n))
	require.NoError(t, os.MkdirAll(caseDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(caseDir, "input.txt"), []byte(contents), 0o644))
}

func TestLoadTestCaseParsesGrammar(t *testing.T) {
	dir := t.TempDir()
	writeTestCase(t, dir, 1, "1000 2000 2 3001 3002\n2\n1 10\n3 10 5 7\n")

	tc, err := LoadTestCase(dir, 1)
	require.NoError(t, err)

	assert.Equal(t, 1000, tc.ShmKey)
	assert.Equal(t, 2000, tc.MainQueueKey)
	assert.Equal(t, []int{3001, 3002}, tc.SolverQueueKeys)
	require.Len(t, tc.Docks, 2)
	assert.Equal(t, DockSpec{Category: 1, CraneCapacities: []int{10}}, tc.Docks[0])
	assert.Equal(t, DockSpec{Category: 3, CraneCapacities: []int{10, 5, 7}}, tc.Docks[1])
}

func TestLoadTestCaseErrorsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadTestCase(dir, 99)
	assert.Error(t, err)
}

func TestLoadTestCaseErrorsOnTruncatedInput(t *testing.T) {
	dir := t.TempDir()
	writeTestCase(t, dir, 2, "1000 2000 1")

	_, err := LoadTestCase(dir, 2)
	assert.Error(t, err)
}
