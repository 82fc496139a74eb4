// internal/protocol/events.go
package protocol

// Inbound event names, sent by clients.
const (
	EventGetLobbyList = "get_lobby_list"
	EventCreateLobby  = "create_lobby"
	EventJoinLobby    = "join_lobby"
	EventLeaveLobby   = "leave_lobby"
	EventPlayerReady  = "player_ready"
	EventSubmitCode   = "submit_code"
)

// Outbound event names, produced by the engine.
const (
	EventLobbyList         = "lobby_list"
	EventLobbyListUpdate   = "lobby_list_update"
	EventLobbyCreated      = "lobby_created"
	EventLobbyJoined       = "lobby_joined"
	EventPlayerJoined      = "player_joined"
	EventPlayerLeft        = "player_left"
	EventLobbyLeft         = "lobby_left"
	EventPlayerReadyUpdate = "player_ready_update"
	EventGameStart         = "game_start"
	EventTestResults       = "test_results"
	EventProgressUpdate    = "progress_update"
	EventGameFinished      = "game_finished"
	EventError             = "error"
)
