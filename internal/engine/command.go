// internal/engine/command.go
package engine

import "github.com/codeduel-gg/server/internal/models"

// Command is the closed set of events the engine loop processes. The
// transport decodes client frames into these; the engine also posts internal
// commands to itself (verdict arrival). Dispatch is an exhaustive type
// switch, so adding an event kind is a compile-time-checked change.
type Command interface{ isCommand() }

// Connect registers a new participant for a freshly accepted connection.
type Connect struct {
	ConnID string
}

// Disconnect removes a participant whose connection closed. Unlike
// LeaveLobby it is tolerant: a participant who was never in a lobby is
// simply dropped from the directory.
type Disconnect struct {
	ConnID string
}

// GetLobbyList requests the paginated public listing.
type GetLobbyList struct {
	ConnID string
	Page   int
	Search string
}

// CreateLobby creates a lobby with the requester as its first member.
type CreateLobby struct {
	ConnID     string
	Name       string
	Visibility string
	Pin        string
	PlayerName string
}

// JoinLobby adds the requester to an existing waiting lobby.
type JoinLobby struct {
	ConnID     string
	LobbyID    string
	Pin        string
	PlayerName string
}

// LeaveLobby removes the requester from their current lobby.
type LeaveLobby struct {
	ConnID string
}

// PlayerReady marks the requester ready and fires the start barrier when the
// full roster is ready.
type PlayerReady struct {
	ConnID string
}

// SubmitCode runs the requester's code against the lobby's problem.
type SubmitCode struct {
	ConnID   string
	Code     string
	Language string
}

// verdictReady re-enters the loop when an in-flight judging call resolves.
// Total carries the case count so a collaborator failure can still be mapped
// to a zero-credit result.
type verdictReady struct {
	ConnID  string
	LobbyID string
	Total   int
	Verdict models.Verdict
	Err     error
}

// inspectState reflects engine state over a reply channel without data
// races. Used by tests and diagnostics.
type inspectState struct {
	Reply chan Snapshot
}

func (Connect) isCommand()      {}
func (Disconnect) isCommand()   {}
func (GetLobbyList) isCommand() {}
func (CreateLobby) isCommand()  {}
func (JoinLobby) isCommand()    {}
func (LeaveLobby) isCommand()   {}
func (PlayerReady) isCommand()  {}
func (SubmitCode) isCommand()   {}
func (verdictReady) isCommand() {}
func (inspectState) isCommand() {}
