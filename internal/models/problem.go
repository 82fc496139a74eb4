// internal/models/problem.go
package models

// TestCase is one judged input/output pair. Test cases are never sent to
// clients; only the judge sees expected outputs.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// Example is a worked example shown to players alongside the problem text.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// Problem is an immutable coding problem definition, supplied externally.
// The JSON shape matches the game_start payload; TestCases are withheld.
type Problem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Examples    []Example  `json:"examples"`
	Template    string     `json:"template"`
	TimeLimit   int        `json:"timeLimit"` // seconds
	TestCases   []TestCase `json:"-"`
}
