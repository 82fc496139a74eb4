// internal/ws/registry_test.go
package ws

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeduel-gg/server/internal/protocol"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// addClient registers a pump-less client; tests read frames straight off the
// out channel.
func addClient(r *Registry, id string) *Client {
	c := newClient(id, nil, func() {}, r.log)
	r.Add(c)
	return c
}

func drain(c *Client) []protocol.OutboundFrame {
	var frames []protocol.OutboundFrame
	for {
		select {
		case f := <-c.out:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func TestRegistrySendTo(t *testing.T) {
	r := NewRegistry(testLogger())
	a := addClient(r, "a")
	b := addClient(r, "b")

	r.SendTo("a", "hello", "payload")
	r.SendTo("ghost", "hello", "payload") // unknown ids are ignored

	frames := drain(a)
	require.Len(t, frames, 1)
	assert.Equal(t, "hello", frames[0].Event)
	assert.Equal(t, "payload", frames[0].Data)
	assert.Empty(t, drain(b))
}

func TestRegistrySendToLobby(t *testing.T) {
	r := NewRegistry(testLogger())
	a := addClient(r, "a")
	b := addClient(r, "b")
	c := addClient(r, "c")

	r.SendToLobby([]string{"a", "b", "gone"}, "update", 1)

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
	assert.Empty(t, drain(c))
}

func TestRegistrySendToAll(t *testing.T) {
	r := NewRegistry(testLogger())
	a := addClient(r, "a")
	b := addClient(r, "b")
	assert.Equal(t, 2, r.Len())

	r.SendToAll("list", nil)
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(testLogger())
	cancelled := false
	c := newClient("a", nil, func() { cancelled = true }, r.log)
	r.Add(c)

	r.Remove("a")
	assert.True(t, cancelled, "removal cancels the client's pumps")
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("a")
	assert.False(t, ok)

	r.Remove("a") // second remove is a no-op
	r.SendTo("a", "late", nil)
	assert.Empty(t, drain(c))
}

// A full outbound channel drops frames instead of blocking the sender.
func TestClientSendNeverBlocks(t *testing.T) {
	r := NewRegistry(testLogger())
	c := addClient(r, "a")

	for i := 0; i < cap(c.out)+10; i++ {
		c.Send("flood", i)
	}
	assert.Len(t, drain(c), cap(c.out))
}
