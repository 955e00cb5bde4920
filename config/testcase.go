// Package config loads the static per-testcase dock configuration and IPC
// keys from testcase<N>/input.txt (spec.md §6). Parsing the input file
// format itself is out of scope (spec.md §1 "Out of scope"); this package
// only decodes the exact grammar faithfully.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// DockSpec is one dock's static configuration line from the input file.
type DockSpec struct {
	Category        int
	CraneCapacities []int
}

// TestCase is the fully decoded contents of one testcase<N>/input.txt.
type TestCase struct {
	ShmKey          int
	MainQueueKey    int
	SolverQueueKeys []int
	Docks           []DockSpec
}

// LoadTestCase reads dir/testcase<N>/input.txt and decodes it per the
// grammar in spec.md §6:
//
//	shmKey mainQueueKey numSolvers solverQueueKey_1..numSolvers
//	numDocks (category_d capacity_{d,1}..capacity_{d,category_d})_1..numDocks
func LoadTestCase(dir string, testCaseNum int) (TestCase, error) {
	path := filepath.Join(dir, fmt.Sprintf("testcase%d", testCaseNum), "input.txt")
	f, err := os.Open(path)
	if err != nil {
		return TestCase{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	next := func(field string) (int, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("config: read %s: %w", field, err)
			}
			return 0, fmt.Errorf("config: unexpected end of input reading %s", field)
		}
		var v int
		if _, err := fmt.Sscanf(scanner.Text(), "%d", &v); err != nil {
			return 0, fmt.Errorf("config: parse %s: %w", field, err)
		}
		return v, nil
	}

	var tc TestCase
	var err2 error

	if tc.ShmKey, err2 = next("shmKey"); err2 != nil {
		return TestCase{}, err2
	}
	if tc.MainQueueKey, err2 = next("mainQueueKey"); err2 != nil {
		return TestCase{}, err2
	}
	numSolvers, err2 := next("numSolvers")
	if err2 != nil {
		return TestCase{}, err2
	}
	tc.SolverQueueKeys = make([]int, numSolvers)
	for i := range tc.SolverQueueKeys {
		if tc.SolverQueueKeys[i], err2 = next(fmt.Sprintf("solverQueueKey_%d", i+1)); err2 != nil {
			return TestCase{}, err2
		}
	}

	numDocks, err2 := next("numDocks")
	if err2 != nil {
		return TestCase{}, err2
	}
	tc.Docks = make([]DockSpec, numDocks)
	for d := range tc.Docks {
		category, err2 := next(fmt.Sprintf("category_%d", d+1))
		if err2 != nil {
			return TestCase{}, err2
		}
		capacities := make([]int, category)
		for c := range capacities {
			if capacities[c], err2 = next(fmt.Sprintf("capacity_%d_%d", d+1, c+1)); err2 != nil {
				return TestCase{}, err2
			}
		}
		tc.Docks[d] = DockSpec{Category: category, CraneCapacities: capacities}
	}

	return tc, nil
}
