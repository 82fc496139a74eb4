// internal/ws/handler_test.go
package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeduel-gg/server/internal/engine"
	"github.com/codeduel-gg/server/internal/protocol"
)

func frame(event, data string) protocol.InboundFrame {
	return protocol.InboundFrame{Event: event, Data: json.RawMessage(data)}
}

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		name  string
		frame protocol.InboundFrame
		want  engine.Command
	}{
		{
			"lobby list with paging",
			frame(protocol.EventGetLobbyList, `{"page":2,"search":"duel"}`),
			engine.GetLobbyList{ConnID: "c1", Page: 2, Search: "duel"},
		},
		{
			"lobby list without payload",
			protocol.InboundFrame{Event: protocol.EventGetLobbyList},
			engine.GetLobbyList{ConnID: "c1"},
		},
		{
			"create lobby",
			frame(protocol.EventCreateLobby, `{"name":"Alpha","type":"private","pin":"1234","playerName":"Alice"}`),
			engine.CreateLobby{ConnID: "c1", Name: "Alpha", Visibility: "private", Pin: "1234", PlayerName: "Alice"},
		},
		{
			"join lobby",
			frame(protocol.EventJoinLobby, `{"lobbyId":"lobby_123456","pin":"1234","playerName":"Bob"}`),
			engine.JoinLobby{ConnID: "c1", LobbyID: "lobby_123456", Pin: "1234", PlayerName: "Bob"},
		},
		{
			"leave lobby",
			frame(protocol.EventLeaveLobby, `{}`),
			engine.LeaveLobby{ConnID: "c1"},
		},
		{
			"player ready",
			protocol.InboundFrame{Event: protocol.EventPlayerReady},
			engine.PlayerReady{ConnID: "c1"},
		},
		{
			"submit code",
			frame(protocol.EventSubmitCode, `{"code":"return [0, 1]","language":"python"}`),
			engine.SubmitCode{ConnID: "c1", Code: "return [0, 1]", Language: "python"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := decodeCommand("c1", tc.frame)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestDecodeCommandRejections(t *testing.T) {
	_, err := decodeCommand("c1", frame("teleport", `{}`))
	require.Error(t, err)
	assert.Equal(t, "Unknown event type: teleport", err.Error())

	_, err = decodeCommand("c1", frame(protocol.EventCreateLobby, `"not an object"`))
	require.Error(t, err)
	assert.Equal(t, "Invalid payload for create_lobby", err.Error())

	_, err = decodeCommand("c1", frame(protocol.EventSubmitCode, `[1,2]`))
	require.Error(t, err)
	assert.Equal(t, "Invalid payload for submit_code", err.Error())
}
