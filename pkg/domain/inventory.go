package domain

// TestFile represents a loaded test file.
type TestFile struct {
	// Framework is the strategy that loaded the file (e.g., "mocha").
	Framework string `json:"framework"`
	// Language is the programming language of this file.
	Language Language `json:"language"`
	// Path is the file path exactly as it was registered.
	Path string `json:"path"`
	// Suites contains the top-level suites declared in this file.
	Suites []TestSuite `json:"suites,omitempty"`
	// Tests contains the top-level tests in this file (outside any suite).
	Tests []Test `json:"tests,omitempty"`
}

// CountTests returns the total number of tests in this file.
func (f *TestFile) CountTests() int {
	count := len(f.Tests)
	for _, s := range f.Suites {
		count += s.CountTests()
	}
	return count
}

// CountPending returns the number of skipped or todo tests in this file.
func (f *TestFile) CountPending() int {
	count := countPending(f.Tests)
	for _, s := range f.Suites {
		count += s.CountPending()
	}
	return count
}

// Inventory is the ordered set of files loaded in one discovery run.
type Inventory struct {
	// Files keeps registration order.
	Files []TestFile `json:"files"`
}

// CountTests returns the total number of tests across all files.
func (inv Inventory) CountTests() int {
	count := 0
	for _, f := range inv.Files {
		count += f.CountTests()
	}
	return count
}

// CountPending returns the number of skipped or todo tests across all files.
func (inv Inventory) CountPending() int {
	count := 0
	for _, f := range inv.Files {
		count += f.CountPending()
	}
	return count
}

// CountByFramework returns the number of files each framework loaded.
func (inv Inventory) CountByFramework() map[string]int {
	counts := make(map[string]int)
	for _, f := range inv.Files {
		counts[f.Framework]++
	}
	return counts
}
