// internal/engine/engine.go
package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/judge"
	"github.com/codeduel-gg/server/internal/models"
	"github.com/codeduel-gg/server/internal/protocol"
	"github.com/codeduel-gg/server/internal/store"
)

// Broadcaster is the delivery capability supplied by the transport. Sends
// are best-effort: the engine never blocks on or reverts state over delivery
// failures, and relies on the transport's disconnect notification for
// cleanup.
type Broadcaster interface {
	SendTo(connID string, event string, data interface{})
	SendToLobby(connIDs []string, event string, data interface{})
	SendToAll(event string, data interface{})
}

// ProblemSource supplies the problem definition attached to a starting match.
type ProblemSource interface {
	Default() models.Problem
}

// MatchResult summarizes a finished match for optional downstream consumers
// (e.g. the Redis history queue).
type MatchResult struct {
	LobbyID    string
	LobbyName  string
	WinnerID   string
	WinnerName string
	Duration   time.Duration
	FinishedAt time.Time
	Scores     []MatchScore
}

// MatchScore is one member's final line in a MatchResult.
type MatchScore struct {
	ParticipantID string
	Name          string
	TestsPassed   int
	TotalTests    int
	Completed     bool
}

// Engine is the lobby coordination and match session core. One goroutine
// (Run) owns the participant directory and lobby store and processes
// commands from the inbox in order; handler code runs to completion between
// commands, which is what makes the ready barrier atomic. The only
// suspension point is the judging call, which runs in its own goroutine and
// re-enters the loop as a verdictReady command.
type Engine struct {
	log       *logrus.Logger
	directory *store.ParticipantDirectory
	lobbies   *store.LobbyStore
	caster    Broadcaster
	judge     judge.Judge
	problems  ProblemSource

	inbox chan Command
	now   func() time.Time

	// OnMatchFinished, if set, is invoked (on its own goroutine) with the
	// result of every finished match.
	OnMatchFinished func(MatchResult)
}

// New builds an engine wired to the given transport broadcaster, judge and
// problem source.
func New(log *logrus.Logger, caster Broadcaster, j judge.Judge, problems ProblemSource) *Engine {
	return &Engine{
		log:       log,
		directory: store.NewParticipantDirectory(),
		lobbies:   store.NewLobbyStore(rand.New(rand.NewSource(time.Now().UnixNano()))),
		caster:    caster,
		judge:     j,
		problems:  problems,
		inbox:     make(chan Command, 256),
		now:       time.Now,
	}
}

// Run processes commands until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.inbox:
			e.handle(cmd)
		}
	}
}

// Dispatch enqueues a command for the engine loop. Commands from a single
// connection are processed in the order they were dispatched.
func (e *Engine) Dispatch(cmd Command) {
	e.inbox <- cmd
}

// handle dispatches one command. Operation errors become a single error
// frame to the requester; an unexpected panic is contained the same way so
// the loop, and every other connection, stays alive.
func (e *Engine) handle(cmd Command) {
	origin := originOf(cmd)
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("engine: recovered from panic handling %T: %v", cmd, r)
			if origin != "" {
				e.sendError(origin, &ConflictError{Message: "internal error, request dropped"})
			}
		}
	}()

	switch c := cmd.(type) {
	case Connect:
		e.handleConnect(c)
	case Disconnect:
		e.handleDisconnect(c)
	case GetLobbyList:
		e.handleGetLobbyList(c)
	case CreateLobby:
		e.sendError(c.ConnID, e.handleCreateLobby(c))
	case JoinLobby:
		e.sendError(c.ConnID, e.handleJoinLobby(c))
	case LeaveLobby:
		e.sendError(c.ConnID, e.handleLeaveLobby(c))
	case PlayerReady:
		e.sendError(c.ConnID, e.handlePlayerReady(c))
	case SubmitCode:
		e.sendError(c.ConnID, e.handleSubmitCode(c))
	case verdictReady:
		e.handleVerdict(c)
	case inspectState:
		c.Reply <- e.snapshot()
	}
}

// originOf returns the requesting connection id for a command, or "".
func originOf(cmd Command) string {
	switch c := cmd.(type) {
	case Connect:
		return c.ConnID
	case Disconnect:
		return ""
	case GetLobbyList:
		return c.ConnID
	case CreateLobby:
		return c.ConnID
	case JoinLobby:
		return c.ConnID
	case LeaveLobby:
		return c.ConnID
	case PlayerReady:
		return c.ConnID
	case SubmitCode:
		return c.ConnID
	default:
		return ""
	}
}

// Snapshot is a copy of engine state for race-free inspection.
type Snapshot struct {
	Participants map[string]models.Participant
	Lobbies      []models.Lobby
}

// Inspect returns a consistent snapshot of current engine state, serialized
// through the command loop.
func (e *Engine) Inspect() Snapshot {
	reply := make(chan Snapshot, 1)
	e.inbox <- inspectState{Reply: reply}
	return <-reply
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{Participants: make(map[string]models.Participant)}
	for _, l := range e.lobbies.All() {
		cp := *l
		cp.Members = make([]*models.Member, len(l.Members))
		for i, m := range l.Members {
			mc := *m
			cp.Members[i] = &mc
		}
		snap.Lobbies = append(snap.Lobbies, cp)
	}
	e.directory.Each(func(p *models.Participant) {
		snap.Participants[p.ID] = *p
	})
	return snap
}

func (e *Engine) sendError(connID string, err error) {
	if err == nil {
		return
	}
	e.log.Warnf("engine: request from %s rejected: %v", connID, err)
	e.caster.SendTo(connID, protocol.EventError, errorPayload(err))
}
