// internal/store/store.go
package store

import (
	"fmt"
	"math/rand"

	"github.com/codeduel-gg/server/internal/models"
)

// ParticipantDirectory maps connection ids to participant state. It is owned
// by the engine goroutine and carries no locking: all mutation happens on the
// single logical worker (see internal/engine).
type ParticipantDirectory struct {
	participants map[string]*models.Participant
}

// NewParticipantDirectory returns an empty directory.
func NewParticipantDirectory() *ParticipantDirectory {
	return &ParticipantDirectory{participants: make(map[string]*models.Participant)}
}

// Add inserts the participant, keyed by its connection id.
func (d *ParticipantDirectory) Add(p *models.Participant) {
	d.participants[p.ID] = p
}

// Get returns the participant for the given connection id.
func (d *ParticipantDirectory) Get(id string) (*models.Participant, bool) {
	p, ok := d.participants[id]
	return p, ok
}

// Remove deletes the participant. Callers are responsible for clearing any
// lobby roster entry in the same logical step.
func (d *ParticipantDirectory) Remove(id string) {
	delete(d.participants, id)
}

// Len returns the number of live participants.
func (d *ParticipantDirectory) Len() int {
	return len(d.participants)
}

// Each calls fn for every live participant.
func (d *ParticipantDirectory) Each(fn func(*models.Participant)) {
	for _, p := range d.participants {
		fn(p)
	}
}

// LobbyStore maps lobby ids to lobby state, preserving insertion order so
// that listings can break createdAt ties by creation order. Like the
// directory, it is owned by the engine goroutine and unlocked.
type LobbyStore struct {
	lobbies map[string]*models.Lobby
	order   []string
	rng     *rand.Rand
}

// NewLobbyStore returns an empty store using the given random source for id
// generation. Tests pass a seeded source for determinism.
func NewLobbyStore(rng *rand.Rand) *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[string]*models.Lobby),
		rng:     rng,
	}
}

// NewID allocates an unused lobby id by retrying random candidates until one
// misses the existing key set. With six-digit ids and a handful of live
// lobbies the collision probability makes unbounded retry acceptable.
func (s *LobbyStore) NewID() string {
	for {
		id := fmt.Sprintf("lobby_%06d", 100000+s.rng.Intn(900000))
		if _, exists := s.lobbies[id]; !exists {
			return id
		}
	}
}

// Add inserts the lobby.
func (s *LobbyStore) Add(l *models.Lobby) {
	if _, exists := s.lobbies[l.ID]; exists {
		return
	}
	s.lobbies[l.ID] = l
	s.order = append(s.order, l.ID)
}

// Get returns the lobby for the given id.
func (s *LobbyStore) Get(id string) (*models.Lobby, bool) {
	l, ok := s.lobbies[id]
	return l, ok
}

// Remove deletes the lobby. Callers must have already detached every member.
func (s *LobbyStore) Remove(id string) {
	if _, ok := s.lobbies[id]; !ok {
		return
	}
	delete(s.lobbies, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns the live lobbies in insertion order.
func (s *LobbyStore) All() []*models.Lobby {
	out := make([]*models.Lobby, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lobbies[id])
	}
	return out
}

// Len returns the number of live lobbies.
func (s *LobbyStore) Len() int {
	return len(s.lobbies)
}
