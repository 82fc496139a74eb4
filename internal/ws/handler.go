// internal/ws/handler.go
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/engine"
	"github.com/codeduel-gg/server/internal/protocol"
)

// Handler accepts websocket connections and bridges them to the engine:
// connect/disconnect notifications plus decoded inbound frames. Each
// connection gets a read loop (this goroutine) and a write pump.
func Handler(logger *logrus.Logger, eng *engine.Engine, reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // CORS policy is owned by the deployment
		})
		if err != nil {
			logger.Warnf("ws: accept error from %s: %v", r.RemoteAddr, err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "handler finished")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		clientID := "client_" + uuid.NewString()
		client := newClient(clientID, conn, cancel, logger)
		reg.Add(client)
		eng.Dispatch(engine.Connect{ConnID: clientID})
		logger.Infof("ws: client %s connected from %s", clientID, r.RemoteAddr)

		go client.writePump(ctx)

		readLoop(ctx, conn, client, eng, logger)

		// Reached on any read error or close: reap the connection and let the
		// engine run its tolerant disconnect path.
		reg.Remove(clientID)
		eng.Dispatch(engine.Disconnect{ConnID: clientID})
		conn.Close(websocket.StatusNormalClosure, "bye")
		logger.Infof("ws: client %s disconnected", clientID)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, client *Client, eng *engine.Engine, logger *logrus.Logger) {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("ws: read error for %s: %v", client.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var frame protocol.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			client.SendError("Invalid JSON format")
			continue
		}

		cmd, err := decodeCommand(client.ID, frame)
		if err != nil {
			client.SendError(err.Error())
			continue
		}
		eng.Dispatch(cmd)
	}
}

// decodeCommand maps one inbound frame onto the engine's command union.
func decodeCommand(connID string, frame protocol.InboundFrame) (engine.Command, error) {
	raw := frame.Data
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	switch frame.Event {
	case protocol.EventGetLobbyList:
		var req protocol.GetLobbyListRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("Invalid payload for %s", frame.Event)
		}
		return engine.GetLobbyList{ConnID: connID, Page: req.Page, Search: req.Search}, nil

	case protocol.EventCreateLobby:
		var req protocol.CreateLobbyRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("Invalid payload for %s", frame.Event)
		}
		return engine.CreateLobby{
			ConnID:     connID,
			Name:       req.Name,
			Visibility: req.Type,
			Pin:        req.Pin,
			PlayerName: req.PlayerName,
		}, nil

	case protocol.EventJoinLobby:
		var req protocol.JoinLobbyRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("Invalid payload for %s", frame.Event)
		}
		return engine.JoinLobby{
			ConnID:     connID,
			LobbyID:    req.LobbyID,
			Pin:        req.Pin,
			PlayerName: req.PlayerName,
		}, nil

	case protocol.EventLeaveLobby:
		return engine.LeaveLobby{ConnID: connID}, nil

	case protocol.EventPlayerReady:
		return engine.PlayerReady{ConnID: connID}, nil

	case protocol.EventSubmitCode:
		var req protocol.SubmitCodeRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("Invalid payload for %s", frame.Event)
		}
		return engine.SubmitCode{ConnID: connID, Code: req.Code, Language: req.Language}, nil

	default:
		return nil, fmt.Errorf("Unknown event type: %s", frame.Event)
	}
}
