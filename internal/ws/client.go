// internal/ws/client.go
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/protocol"
)

// Client is one live connection: the websocket plus a buffered outbound
// channel drained by the write pump.
type Client struct {
	ID     string
	conn   *websocket.Conn
	out    chan protocol.OutboundFrame
	cancel context.CancelFunc
	log    *logrus.Logger
}

func newClient(id string, conn *websocket.Conn, cancel context.CancelFunc, log *logrus.Logger) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		out:    make(chan protocol.OutboundFrame, 16),
		cancel: cancel,
		log:    log,
	}
}

// Send queues a frame without blocking. A full or closed channel drops the
// frame; the engine never waits on delivery, and a client that backed up
// this far is about to be reaped by its own read loop anyway.
func (c *Client) Send(event string, data interface{}) {
	select {
	case c.out <- protocol.OutboundFrame{Event: event, Data: data}:
	default:
		c.log.Warnf("ws: out channel for %s full or closed, dropped %q", c.ID, event)
	}
}

// SendError is a convenience for a single error frame.
func (c *Client) SendError(message string) {
	c.Send(protocol.EventError, protocol.ErrorPayload{Message: message})
}

// writePump drains the out channel onto the websocket and keeps the
// connection alive with periodic pings. It exits on context cancellation or
// the first write failure; the read pump notices the broken connection and
// drives cleanup.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.out:
			if !ok {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				c.log.Warnf("ws: marshal outbound %q for %s: %v", frame.Event, c.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.log.Warnf("ws: write to %s failed: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.log.Warnf("ws: ping to %s failed, assuming disconnect: %v", c.ID, err)
				return
			}
		}
	}
}
