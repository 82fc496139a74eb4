// internal/protocol/messages.go
package protocol

import (
	"encoding/json"

	"github.com/codeduel-gg/server/internal/models"
)

// InboundFrame is one decoded client message: an event name plus its raw
// payload, which the transport decodes into the matching request struct.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundFrame is one message delivered to a client.
type OutboundFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Inbound payloads.

type GetLobbyListRequest struct {
	Page   int    `json:"page"`
	Search string `json:"search"`
}

type CreateLobbyRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Pin        string `json:"pin"`
	PlayerName string `json:"playerName"`
}

type JoinLobbyRequest struct {
	LobbyID    string `json:"lobbyId"`
	Pin        string `json:"pin"`
	PlayerName string `json:"playerName"`
}

type SubmitCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Outbound payloads.

// ErrorPayload is sent only to the requesting connection, never broadcast.
type ErrorPayload struct {
	Message string `json:"message"`
}

// LobbySummary is the redacted public-listing projection of a lobby. It
// never carries the pin or member identities.
type LobbySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalLobbies int `json:"totalLobbies"`
	PerPage      int `json:"perPage"`
}

// LobbyListPayload answers get_lobby_list and backs lobby_list_update.
type LobbyListPayload struct {
	Lobbies    []LobbySummary `json:"lobbies"`
	Pagination Pagination     `json:"pagination"`
	Search     string         `json:"search"`
}

// RosterEntry is a member as shown to lobby occupants.
type RosterEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// LobbyData is the lobby detail sent to its own members. The pin is omitted
// even for private lobbies; members already proved knowledge of it.
type LobbyData struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Status     string        `json:"status"`
	Players    []RosterEntry `json:"players"`
	MaxPlayers int           `json:"maxPlayers"`
	CreatedAt  int64         `json:"createdAt"`
}

type LobbyCreatedPayload struct {
	LobbyID   string    `json:"lobbyId"`
	LobbyData LobbyData `json:"lobbyData"`
}

type LobbyJoinedPayload struct {
	LobbyID     string    `json:"lobbyId"`
	LobbyData   LobbyData `json:"lobbyData"`
	PlayerCount int       `json:"playerCount"`
}

type PlayerJoinedPayload struct {
	PlayerName  string        `json:"playerName"`
	PlayerCount int           `json:"playerCount"`
	MaxPlayers  int           `json:"maxPlayers"`
	Players     []RosterEntry `json:"players"`
}

type PlayerLeftPayload struct {
	PlayerName  string        `json:"playerName"`
	PlayerCount int           `json:"playerCount"`
	Players     []RosterEntry `json:"players"`
}

type LobbyLeftPayload struct {
	Message string `json:"message"`
}

type ReadyUpdatePayload struct {
	PlayerName string        `json:"playerName"`
	Players    []RosterEntry `json:"players"`
}

// PlayerRef identifies a player in game_start without ready/score state.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GameStartPayload struct {
	Problem   *models.Problem `json:"problem"`
	Players   []PlayerRef     `json:"players"`
	TimeLimit int             `json:"timeLimit"`
}

type TestResultsPayload struct {
	Passed    int      `json:"passed"`
	Total     int      `json:"total"`
	Completed bool     `json:"completed"`
	Runtime   int      `json:"runtime"`
	Errors    []string `json:"errors"`
	Simulated bool     `json:"simulated"`
}

type ProgressEntry struct {
	Name        string `json:"name"`
	TestsPassed int    `json:"tests_passed"`
	TotalTests  int    `json:"total_tests"`
	Completed   bool   `json:"completed"`
}

type ProgressUpdatePayload struct {
	Players []ProgressEntry `json:"players"`
}

// FinalScore carries a member's end-of-match result. CompletionTime is set
// only for members who completed the problem.
type FinalScore struct {
	Name           string   `json:"name"`
	TestsPassed    int      `json:"tests_passed"`
	TotalTests     int      `json:"total_tests"`
	Completed      bool     `json:"completed"`
	CompletionTime *float64 `json:"completion_time"`
}

type GameFinishedPayload struct {
	Winner       string       `json:"winner"`
	WinnerID     string       `json:"winner_id"`
	FinalScores  []FinalScore `json:"final_scores"`
	GameDuration float64      `json:"game_duration"`
}
