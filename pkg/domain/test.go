package domain

// Test is a test case as declared in a single source file.
type Test struct {
	Location Location   `json:"location"`
	Modifier string     `json:"modifier,omitempty"`
	Name     string     `json:"name"`
	Status   TestStatus `json:"status"`
}

// TestSuite is a suite as declared in a single source file.
type TestSuite struct {
	Location Location    `json:"location"`
	Modifier string      `json:"modifier,omitempty"`
	Name     string      `json:"name"`
	Status   TestStatus  `json:"status"`
	Suites   []TestSuite `json:"suites,omitempty"`
	Tests    []Test      `json:"tests,omitempty"`
}

// CountTests returns the number of tests in this suite and all nested suites.
func (s *TestSuite) CountTests() int {
	count := len(s.Tests)
	for _, sub := range s.Suites {
		count += sub.CountTests()
	}
	return count
}

// CountPending returns the number of skipped or todo tests, nested included.
func (s *TestSuite) CountPending() int {
	count := countPending(s.Tests)
	for _, sub := range s.Suites {
		count += sub.CountPending()
	}
	return count
}

func countPending(tests []Test) int {
	count := 0
	for _, t := range tests {
		if t.Status == TestStatusSkipped || t.Status == TestStatusTodo {
			count++
		}
	}
	return count
}
