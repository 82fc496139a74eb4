// internal/problems/problems_test.go
package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRepositoryDefault(t *testing.T) {
	repo := NewStaticRepository()
	p := repo.Default()

	assert.Equal(t, "two-sum", p.ID)
	assert.Equal(t, "Two Sum", p.Title)
	assert.Equal(t, 300, p.TimeLimit)
	assert.Contains(t, p.Template, "def two_sum")
	require.Len(t, p.TestCases, 5)
	require.Len(t, p.Examples, 1)

	for _, tc := range p.TestCases {
		assert.NotEmpty(t, tc.Input)
		assert.NotEmpty(t, tc.ExpectedOutput)
	}
	assert.Equal(t, p.Examples[0].Input, p.TestCases[0].Input)
	assert.Equal(t, p.Examples[0].Output, p.TestCases[0].ExpectedOutput)
}

// Problem definitions are shared by value and must not alias between calls.
func TestStaticRepositoryIsolation(t *testing.T) {
	repo := NewStaticRepository()
	a := repo.Default()
	b := repo.Default()

	a.TestCases[0].Input = "tampered"
	assert.Equal(t, "[2,7,11,15]\n9", b.TestCases[0].Input)
}
