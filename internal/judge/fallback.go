// internal/judge/fallback.go
package judge

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/codeduel-gg/server/internal/models"
)

// fallbackTotalTests is the synthetic case count used by heuristic verdicts.
const fallbackTotalTests = 5

// HeuristicScorer produces a deterministic-ish verdict from code features
// alone: length thresholds, a return-like construct, a loop-like construct
// and a function definition, mapped through a fixed scoring table with
// bounded randomness for tie-breaking. It exists so the system stays
// testable and demoable without the external judge; its verdicts are always
// flagged Simulated.
type HeuristicScorer struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

// NewHeuristicScorer returns a scorer with a time-seeded random source and a
// short artificial delay standing in for judge latency.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		delay: 100 * time.Millisecond,
	}
}

// newHeuristicScorerForTest builds a scorer with a fixed seed and no delay.
func newHeuristicScorerForTest(seed int64) *HeuristicScorer {
	return &HeuristicScorer{rng: rand.New(rand.NewSource(seed))}
}

// codeFeatures are the flags the scoring table is built from.
type codeFeatures struct {
	length      int
	hasReturn   bool
	hasLoop     bool
	hasFunction bool
}

func extractFeatures(code string) codeFeatures {
	return codeFeatures{
		length:      len(strings.TrimSpace(code)),
		hasReturn:   strings.Contains(code, "return"),
		hasLoop:     strings.Contains(code, "for") || strings.Contains(code, "while"),
		hasFunction: strings.Contains(code, "def ") || strings.Contains(code, "func ") || strings.Contains(code, "function"),
	}
}

// featureScore maps the flags through the fixed scoring table.
func featureScore(f codeFeatures) int {
	score := 0
	if f.length > 50 {
		score++
	}
	if f.hasReturn {
		score += 2
	}
	if f.hasLoop {
		score++
	}
	if f.hasFunction {
		score++
	}
	if f.length > 100 {
		score++
	}
	return score
}

// Score produces a heuristic verdict for the submitted code.
func (h *HeuristicScorer) Score(code string) models.Verdict {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}

	f := extractFeatures(code)
	score := featureScore(f)

	h.mu.Lock()
	chance := h.rng.Float64()
	var passed int
	switch {
	case score >= 4 && chance > 0.2:
		passed = fallbackTotalTests
	case score >= 3 && chance > 0.3:
		passed = h.intBetween(3, 4)
	case score >= 2:
		passed = h.intBetween(1, 3)
	default:
		passed = h.intBetween(0, 2)
	}
	runtime := h.intBetween(50, 300)
	h.mu.Unlock()

	if passed > fallbackTotalTests {
		passed = fallbackTotalTests
	}

	var errs []string
	if passed < fallbackTotalTests {
		if !f.hasReturn {
			errs = append(errs, "Function must return a value")
		}
		if passed == 0 {
			errs = append(errs, "No test cases passed")
		} else if passed < 3 {
			errs = append(errs, fmt.Sprintf("Only %d out of %d test cases passed", passed, fallbackTotalTests))
		}
	}

	return models.Verdict{
		Passed:    passed,
		Total:     fallbackTotalTests,
		Completed: passed == fallbackTotalTests,
		RuntimeMS: runtime,
		Errors:    errs,
		Simulated: true,
	}
}

// intBetween returns a value in [lo, hi]. Caller holds h.mu.
func (h *HeuristicScorer) intBetween(lo, hi int) int {
	return lo + h.rng.Intn(hi-lo+1)
}

// syntheticRuntime fabricates a runtime figure in the same band the
// heuristic scorer uses.
func syntheticRuntime() int {
	return 50 + rand.Intn(251)
}
