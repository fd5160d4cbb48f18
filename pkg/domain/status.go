package domain

// TestStatus represents the declared execution behavior of a test.
// Discovery keeps every declared test regardless of status, the way the
// framework's own loader does; status only feeds load statistics.
type TestStatus string

const (
	// TestStatusActive indicates a normal test that runs and expects success.
	TestStatusActive TestStatus = "active"
	// TestStatusSkipped indicates a pending test (.skip, xit, no callback).
	TestStatusSkipped TestStatus = "skipped"
	// TestStatusTodo indicates a test not yet implemented.
	TestStatusTodo TestStatus = "todo"
	// TestStatusFocused indicates a debugging-only test (.only, fit).
	TestStatusFocused TestStatus = "focused"
)
