// internal/problems/postgres.go
package problems

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeduel-gg/server/internal/models"
)

// PostgresRepository loads problem definitions from Postgres at startup.
// Definitions are immutable for the process lifetime, so the default problem
// is read once and cached; the pool stays open only for future reloads.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	problem models.Problem
}

// NewPostgresRepository connects the pool and loads the default problem (the
// lowest-position row in the problems table) together with its ordered test
// cases. Returns an error if the table is empty or unreachable; callers fall
// back to the static repository.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	r := &PostgresRepository{pool: pool}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) load(ctx context.Context) error {
	var p models.Problem
	q := `
	SELECT id, title, description, template, time_limit_seconds
	FROM problems
	ORDER BY position ASC
	LIMIT 1
	`
	err := r.pool.QueryRow(ctx, q).Scan(&p.ID, &p.Title, &p.Description, &p.Template, &p.TimeLimit)
	if err != nil {
		return fmt.Errorf("problems: load default problem: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
	SELECT input, expected_output
	FROM problem_test_cases
	WHERE problem_id = $1
	ORDER BY position ASC
	`, p.ID)
	if err != nil {
		return fmt.Errorf("problems: load test cases for %s: %w", p.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc models.TestCase
		if err := rows.Scan(&tc.Input, &tc.ExpectedOutput); err != nil {
			return fmt.Errorf("problems: scan test case for %s: %w", p.ID, err)
		}
		p.TestCases = append(p.TestCases, tc)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(p.TestCases) == 0 {
		return fmt.Errorf("problems: problem %s has no test cases", p.ID)
	}

	erows, err := r.pool.Query(ctx, `
	SELECT input, output, explanation
	FROM problem_examples
	WHERE problem_id = $1
	ORDER BY position ASC
	`, p.ID)
	if err != nil {
		return fmt.Errorf("problems: load examples for %s: %w", p.ID, err)
	}
	defer erows.Close()

	for erows.Next() {
		var ex models.Example
		if err := erows.Scan(&ex.Input, &ex.Output, &ex.Explanation); err != nil {
			return fmt.Errorf("problems: scan example for %s: %w", p.ID, err)
		}
		p.Examples = append(p.Examples, ex)
	}
	if err := erows.Err(); err != nil {
		return err
	}

	r.problem = p
	return nil
}

// Default returns the cached default problem.
func (r *PostgresRepository) Default() models.Problem {
	return r.problem
}
