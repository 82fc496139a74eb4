// internal/judge/fallback_test.go
package judge

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solidSolution = `def two_sum(nums, target):
    seen = {}
    for i, n in enumerate(nums):
        if target - n in seen:
            return [seen[target - n], i]
        seen[n] = i
`

func TestExtractFeatures(t *testing.T) {
	f := extractFeatures(solidSolution)
	assert.True(t, f.hasReturn)
	assert.True(t, f.hasLoop)
	assert.True(t, f.hasFunction)
	assert.Greater(t, f.length, 100)

	f = extractFeatures("  x = 1  ")
	assert.False(t, f.hasReturn)
	assert.False(t, f.hasLoop)
	assert.False(t, f.hasFunction)
	assert.Equal(t, 5, f.length)
}

func TestFeatureScore(t *testing.T) {
	cases := []struct {
		name string
		code string
		want int
	}{
		{"empty", "", 0},
		{"bare return", "return 1", 2},
		{"loop only", "for x in y: pass", 1},
		{"function with return", "def f():\n    return 1", 3},
		{"long body", strings.Repeat("x = 1\n", 10), 1},
		{"full solution", solidSolution, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, featureScore(extractFeatures(tc.code)))
		})
	}
}

func TestHeuristicScoreBounds(t *testing.T) {
	h := newHeuristicScorerForTest(1)

	for i := 0; i < 50; i++ {
		v := h.Score(solidSolution)
		assert.True(t, v.Simulated, "heuristic verdicts are always flagged")
		assert.Equal(t, fallbackTotalTests, v.Total)
		assert.GreaterOrEqual(t, v.Passed, 0)
		assert.LessOrEqual(t, v.Passed, fallbackTotalTests)
		assert.Equal(t, v.Passed == fallbackTotalTests, v.Completed)
		assert.GreaterOrEqual(t, v.RuntimeMS, 50)
		assert.LessOrEqual(t, v.RuntimeMS, 300)
		if v.Completed {
			assert.Empty(t, v.Errors, "a full pass carries no errors")
		}
	}
}

func TestHeuristicScoreWeakCode(t *testing.T) {
	h := newHeuristicScorerForTest(3)

	for i := 0; i < 50; i++ {
		v := h.Score("x")
		// score 0 lands in the bottom bracket
		assert.LessOrEqual(t, v.Passed, 2)
		assert.False(t, v.Completed)
		require.NotEmpty(t, v.Errors)
		assert.Equal(t, "Function must return a value", v.Errors[0])
	}
}

func TestHeuristicErrorMessages(t *testing.T) {
	h := newHeuristicScorerForTest(9)

	sawZero, sawPartial := false, false
	for i := 0; i < 200 && !(sawZero && sawPartial); i++ {
		v := h.Score("pass")
		switch {
		case v.Passed == 0:
			sawZero = true
			assert.Contains(t, v.Errors, "No test cases passed")
		case v.Passed < 3:
			sawPartial = true
			found := false
			for _, e := range v.Errors {
				if strings.Contains(e, "out of 5 test cases passed") {
					found = true
				}
			}
			assert.True(t, found, "partial pass names the count: %v", v.Errors)
		}
	}
	assert.True(t, sawZero, "seed never produced a zero score")
	assert.True(t, sawPartial, "seed never produced a partial score")
}

func TestServiceFallsBackWithoutRemote(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewService(logger, nil)
	svc.fallback = newHeuristicScorerForTest(5)

	v, err := svc.Evaluate(context.Background(), solidSolution, "python", nil)
	require.NoError(t, err)
	assert.True(t, v.Simulated)
	assert.Equal(t, fallbackTotalTests, v.Total)
}

func TestNewClientFromEnvUnconfigured(t *testing.T) {
	t.Setenv("JUDGE0_API_KEY", "")
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	assert.Nil(t, NewClientFromEnv(logger))
}
