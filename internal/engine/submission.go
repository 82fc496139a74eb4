// internal/engine/submission.go
package engine

import (
	"context"
	"strings"

	"github.com/codeduel-gg/server/internal/models"
	"github.com/codeduel-gg/server/internal/protocol"
)

// handleSubmitCode starts the submission pipeline. Everything up to the
// judging call runs synchronously: the guards, and recording the code and
// submission timestamp on the member. The judging call itself runs in a
// separate goroutine and re-enters the loop as a verdictReady command, so
// other lobbies (and non-mutating events on this one) keep being served
// while the verdict is pending.
func (e *Engine) handleSubmitCode(c SubmitCode) error {
	p, ok := e.directory.Get(c.ConnID)
	if !ok || p.LobbyID == "" {
		return &ConflictError{Message: "You are not in a lobby"}
	}
	l, ok := e.lobbies.Get(p.LobbyID)
	if !ok {
		return &NotFoundError{Message: "Lobby not found"}
	}
	if l.Status != models.StatusPlaying {
		return &ConflictError{Message: "Game is not in progress"}
	}
	code := strings.TrimSpace(c.Code)
	if code == "" {
		return &ValidationError{Message: "Code cannot be empty"}
	}
	m := l.Member(p.ID)
	if m == nil {
		return &NotFoundError{Message: "Player not found in lobby"}
	}

	// Pre-suspension state: recorded now, never rolled back.
	m.Code = code
	m.LastSubmission = e.now()

	cases := append([]models.TestCase(nil), l.Problem.TestCases...)
	language := c.Language
	if language == "" {
		language = "python"
	}

	e.log.Infof("engine: %s submitted code in lobby %s", m.Name, l.ID)

	go func(connID, lobbyID string) {
		verdict, err := e.judge.Evaluate(context.Background(), code, language, cases)
		if err != nil {
			err = &CollaboratorError{Message: err.Error()}
		}
		e.inbox <- verdictReady{
			ConnID:  connID,
			LobbyID: lobbyID,
			Total:   len(cases),
			Verdict: verdict,
			Err:     err,
		}
	}(p.ID, l.ID)
	return nil
}

// handleVerdict resumes the submission pipeline once the judging call
// returns. The entry guards are re-checked against current store state: a
// lobby deleted mid-flight, a submitter who left, or a match that already
// finished all produce a discarded verdict, never a write into dead state.
func (e *Engine) handleVerdict(c verdictReady) {
	verdict := c.Verdict
	if c.Err != nil {
		// Collaborator failure maps to a zero-credit result, never a crash.
		e.log.Warnf("engine: judge call failed for %s: %v", c.ConnID, c.Err)
		verdict = models.Verdict{
			Total:  c.Total,
			Errors: []string{"API Error: " + c.Err.Error()},
		}
	}

	l, ok := e.lobbies.Get(c.LobbyID)
	if !ok {
		e.log.Infof("engine: discarding verdict for %s, lobby %s is gone", c.ConnID, c.LobbyID)
		return
	}
	p, ok := e.directory.Get(c.ConnID)
	if !ok || p.LobbyID != c.LobbyID {
		e.log.Infof("engine: discarding verdict for %s, submitter left lobby %s", c.ConnID, c.LobbyID)
		return
	}
	m := l.Member(c.ConnID)
	if m == nil {
		e.log.Infof("engine: discarding verdict for %s, no roster entry in %s", c.ConnID, c.LobbyID)
		return
	}
	if l.Status != models.StatusPlaying {
		e.log.Infof("engine: discarding verdict for %s, lobby %s is %s", c.ConnID, c.LobbyID, l.Status)
		return
	}

	m.TestsPassed = verdict.Passed
	m.TotalTests = verdict.Total
	m.Completed = verdict.Completed

	e.caster.SendTo(c.ConnID, protocol.EventTestResults, protocol.TestResultsPayload{
		Passed:    verdict.Passed,
		Total:     verdict.Total,
		Completed: verdict.Completed,
		Runtime:   verdict.RuntimeMS,
		Errors:    errorsOrEmpty(verdict.Errors),
		Simulated: verdict.Simulated,
	})

	// Opponent code never crosses the wire; only names and running scores.
	e.caster.SendToLobby(memberIDs(l), protocol.EventProgressUpdate, progressPayload(l))

	if verdict.Completed {
		e.finishMatch(l, m)
	}
}

// finishMatch declares the submitter the winner and closes out the lobby.
func (e *Engine) finishMatch(l *models.Lobby, winner *models.Member) {
	l.Status = models.StatusFinished
	l.EndedAt = e.now()
	l.WinnerID = winner.ID

	finalScores := make([]protocol.FinalScore, len(l.Members))
	for i, m := range l.Members {
		score := protocol.FinalScore{
			Name:        m.Name,
			TestsPassed: m.TestsPassed,
			TotalTests:  m.TotalTests,
			Completed:   m.Completed,
		}
		if m.Completed {
			t := m.LastSubmission.Sub(l.StartedAt).Seconds()
			score.CompletionTime = &t
		}
		finalScores[i] = score
	}

	duration := l.EndedAt.Sub(l.StartedAt)
	e.caster.SendToLobby(memberIDs(l), protocol.EventGameFinished, protocol.GameFinishedPayload{
		Winner:       winner.Name,
		WinnerID:     winner.ID,
		FinalScores:  finalScores,
		GameDuration: duration.Seconds(),
	})

	e.log.Infof("engine: game finished in lobby %s, winner %s", l.ID, winner.Name)

	if e.OnMatchFinished != nil {
		result := MatchResult{
			LobbyID:    l.ID,
			LobbyName:  l.Name,
			WinnerID:   winner.ID,
			WinnerName: winner.Name,
			Duration:   duration,
			FinishedAt: l.EndedAt,
		}
		for _, m := range l.Members {
			result.Scores = append(result.Scores, MatchScore{
				ParticipantID: m.ID,
				Name:          m.Name,
				TestsPassed:   m.TestsPassed,
				TotalTests:    m.TotalTests,
				Completed:     m.Completed,
			})
		}
		// Downstream consumers do their own I/O; keep the loop moving.
		go e.OnMatchFinished(result)
	}
}

func progressPayload(l *models.Lobby) protocol.ProgressUpdatePayload {
	players := make([]protocol.ProgressEntry, len(l.Members))
	for i, m := range l.Members {
		players[i] = protocol.ProgressEntry{
			Name:        m.Name,
			TestsPassed: m.TestsPassed,
			TotalTests:  m.TotalTests,
			Completed:   m.Completed,
		}
	}
	return protocol.ProgressUpdatePayload{Players: players}
}

func errorsOrEmpty(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}
