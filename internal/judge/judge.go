// internal/judge/judge.go
package judge

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/models"
)

// Judge evaluates submitted source code against a problem's test cases and
// returns a verdict. The engine treats it as an opaque verdict provider.
type Judge interface {
	Evaluate(ctx context.Context, code, language string, cases []models.TestCase) (models.Verdict, error)
}

// Service is the default Judge: a remote Judge0 client when configured,
// otherwise the local heuristic scorer. The substitution is transparent to
// the engine; heuristic verdicts are flagged Simulated so they are never
// mistaken for real runs.
type Service struct {
	log      *logrus.Logger
	remote   *Client
	fallback *HeuristicScorer
}

// NewService builds a Service. remote may be nil (judge unconfigured).
func NewService(log *logrus.Logger, remote *Client) *Service {
	return &Service{
		log:      log,
		remote:   remote,
		fallback: NewHeuristicScorer(),
	}
}

// Evaluate runs the submission through the remote judge, or through the
// heuristic scorer when no remote judge is configured.
func (s *Service) Evaluate(ctx context.Context, code, language string, cases []models.TestCase) (models.Verdict, error) {
	if s.remote == nil {
		s.log.Warn("judge: no remote judge configured, scoring heuristically")
		return s.fallback.Score(code), nil
	}
	return s.remote.Evaluate(ctx, code, language, cases)
}
