// internal/models/verdict.go
package models

// Verdict is the judging collaborator's response for one submission:
// pass/fail counts, a runtime figure, and per-case error messages.
// Simulated marks verdicts produced by the local heuristic scorer rather
// than a real judge run.
type Verdict struct {
	Passed    int
	Total     int
	Completed bool
	RuntimeMS int
	Errors    []string
	Simulated bool
}
