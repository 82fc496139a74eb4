// internal/models/participant.go
package models

import "time"

// Participant is the in-memory state for one live connection. It exists from
// the moment the transport accepts the connection until it disconnects; the
// ID is only meaningful for the connection's lifetime.
type Participant struct {
	ID          string
	Name        string // set lazily on the first lobby action
	LobbyID     string // "" when the participant is not in a lobby
	ConnectedAt time.Time
}

// DisplayName returns the participant's chosen name, falling back to a
// deterministic name derived from the connection id.
func (p *Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	id := p.ID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "Player" + id
}
