// internal/problems/problems.go
package problems

import "github.com/codeduel-gg/server/internal/models"

// Repository supplies problem definitions to the engine. The engine never
// mutates a Problem; definitions are treated as immutable.
type Repository interface {
	Default() models.Problem
}

// StaticRepository serves the built-in problem set. It is the fallback when
// no database is configured.
type StaticRepository struct{}

// NewStaticRepository returns the built-in repository.
func NewStaticRepository() *StaticRepository {
	return &StaticRepository{}
}

// Default returns the Two Sum problem with its five judged test cases and a
// five minute time limit.
func (r *StaticRepository) Default() models.Problem {
	return models.Problem{
		ID:    "two-sum",
		Title: "Two Sum",
		Description: "Given an array of integers nums and an integer target, return indices " +
			"of the two numbers such that they add up to target. Input: First line contains " +
			"the array as a string (e.g., [2,7,11,15]), second line contains the target integer.",
		Examples: []models.Example{
			{
				Input:       "[2,7,11,15]\n9",
				Output:      "[0, 1]",
				Explanation: "Because nums[0] + nums[1] == 9, we return [0, 1].",
			},
		},
		Template: `# Read input
import sys
lines = sys.stdin.read().strip().split('\n')
nums = eval(lines[0])  # Parse array from string
target = int(lines[1])

# Your solution here
def two_sum(nums, target):
    # Write your solution here
    pass

# Call function and print result
result = two_sum(nums, target)
print(result)`,
		TimeLimit: 300,
		TestCases: []models.TestCase{
			{Input: "[2,7,11,15]\n9", ExpectedOutput: "[0, 1]"},
			{Input: "[3,2,4]\n6", ExpectedOutput: "[1, 2]"},
			{Input: "[3,3]\n6", ExpectedOutput: "[0, 1]"},
			{Input: "[1,2,3,4,5]\n9", ExpectedOutput: "[3, 4]"},
			{Input: "[2,5,5,11]\n10", ExpectedOutput: "[1, 2]"},
		},
	}
}
