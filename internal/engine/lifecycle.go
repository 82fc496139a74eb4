// internal/engine/lifecycle.go
package engine

import (
	"strings"

	"github.com/codeduel-gg/server/internal/models"
	"github.com/codeduel-gg/server/internal/protocol"
)

// handleConnect allocates a Participant for a freshly accepted connection.
func (e *Engine) handleConnect(c Connect) {
	e.directory.Add(&models.Participant{
		ID:          c.ConnID,
		ConnectedAt: e.now(),
	})
	e.log.Infof("engine: participant %s connected", c.ConnID)
}

// handleDisconnect removes a participant and detaches them from any lobby.
// It is tolerant by design: disconnect of an unknown or lobby-less
// participant is a no-op beyond directory cleanup.
func (e *Engine) handleDisconnect(c Disconnect) {
	p, ok := e.directory.Get(c.ConnID)
	if !ok {
		return
	}
	if p.LobbyID != "" {
		if l, ok := e.lobbies.Get(p.LobbyID); ok {
			e.detachMember(l, p)
		}
	}
	e.directory.Remove(c.ConnID)
	e.log.Infof("engine: participant %s disconnected", c.ConnID)
}

func (e *Engine) handleGetLobbyList(c GetLobbyList) {
	page := c.Page
	if page < 1 {
		page = 1
	}
	payload := e.publicLobbies(c.Search, page, DefaultPerPage)
	e.caster.SendTo(c.ConnID, protocol.EventLobbyList, payload)
}

// handleCreateLobby validates the request and creates a one-member lobby.
func (e *Engine) handleCreateLobby(c CreateLobby) error {
	p, ok := e.directory.Get(c.ConnID)
	if !ok {
		return &NotFoundError{Message: "Unknown connection"}
	}
	if p.LobbyID != "" {
		return &ConflictError{Message: "You are already in a lobby"}
	}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Message: "Lobby name is required"}
	}

	visibility := models.Visibility(c.Visibility)
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return &ValidationError{Message: "Lobby type must be 'public' or 'private'"}
	}

	pin := ""
	if visibility == models.VisibilityPrivate {
		if c.Pin == "" {
			return &ValidationError{Message: "Pin is required for private lobbies"}
		}
		if !validPin(c.Pin) {
			return &ValidationError{Message: "Pin must be exactly 4 digits"}
		}
		pin = c.Pin
	}

	playerName := e.resolveName(p, c.PlayerName)

	l := &models.Lobby{
		ID:         e.lobbies.NewID(),
		Name:       name,
		Visibility: visibility,
		Pin:        pin,
		Status:     models.StatusWaiting,
		Members:    []*models.Member{{ID: p.ID, Name: playerName}},
		CreatedAt:  e.now(),
	}
	e.lobbies.Add(l)
	p.LobbyID = l.ID

	e.log.Infof("engine: lobby %q (%s) created by %s", l.Name, l.ID, playerName)

	e.caster.SendTo(p.ID, protocol.EventLobbyCreated, protocol.LobbyCreatedPayload{
		LobbyID:   l.ID,
		LobbyData: lobbyData(l),
	})
	e.broadcastLobbyList()
	return nil
}

// handleJoinLobby validates the request and appends the requester to the
// roster of a waiting lobby.
func (e *Engine) handleJoinLobby(c JoinLobby) error {
	p, ok := e.directory.Get(c.ConnID)
	if !ok {
		return &NotFoundError{Message: "Unknown connection"}
	}

	lobbyID := strings.TrimSpace(c.LobbyID)
	if lobbyID == "" {
		return &ValidationError{Message: "Lobby ID is required"}
	}
	l, ok := e.lobbies.Get(lobbyID)
	if !ok {
		return &NotFoundError{Message: "Lobby not found"}
	}
	if l.IsFull() {
		return &ConflictError{Message: "Lobby is full"}
	}
	if l.Status != models.StatusWaiting {
		return &ConflictError{Message: "Game already in progress"}
	}
	if p.LobbyID != "" {
		return &ConflictError{Message: "You are already in a lobby"}
	}
	if l.Visibility == models.VisibilityPrivate {
		pin := strings.TrimSpace(c.Pin)
		if pin == "" {
			return &ValidationError{Message: "Pin is required for private lobbies"}
		}
		if pin != l.Pin {
			return &ConflictError{Message: "Incorrect pin"}
		}
	}

	playerName := e.resolveName(p, c.PlayerName)
	l.Members = append(l.Members, &models.Member{ID: p.ID, Name: playerName})
	p.LobbyID = l.ID

	e.log.Infof("engine: %s joined lobby %q (%s)", playerName, l.Name, l.ID)

	e.caster.SendTo(p.ID, protocol.EventLobbyJoined, protocol.LobbyJoinedPayload{
		LobbyID:     l.ID,
		LobbyData:   lobbyData(l),
		PlayerCount: len(l.Members),
	})
	e.caster.SendToLobby(memberIDs(l), protocol.EventPlayerJoined, protocol.PlayerJoinedPayload{
		PlayerName:  playerName,
		PlayerCount: len(l.Members),
		MaxPlayers:  models.LobbyCapacity,
		Players:     rosterEntries(l),
	})
	e.broadcastLobbyList()
	return nil
}

// handleLeaveLobby removes the requester from their lobby. Unlike
// disconnect, an explicit leave with no current lobby is an error.
func (e *Engine) handleLeaveLobby(c LeaveLobby) error {
	p, ok := e.directory.Get(c.ConnID)
	if !ok || p.LobbyID == "" {
		return &ConflictError{Message: "You are not in a lobby"}
	}

	l, ok := e.lobbies.Get(p.LobbyID)
	if !ok {
		// Orphaned reference; just clear it.
		p.LobbyID = ""
		return nil
	}

	e.caster.SendTo(p.ID, protocol.EventLobbyLeft, protocol.LobbyLeftPayload{
		Message: "Left lobby successfully",
	})
	e.detachMember(l, p)
	return nil
}

// detachMember removes a participant from a lobby's roster, deleting the
// lobby the moment the roster empties (at any status) or notifying the
// remaining members otherwise. Shared between leave and disconnect.
func (e *Engine) detachMember(l *models.Lobby, p *models.Participant) {
	name := p.DisplayName()
	if m := l.Member(p.ID); m != nil {
		name = m.Name
	}
	l.RemoveMember(p.ID)
	p.LobbyID = ""

	e.log.Infof("engine: %s left lobby %q (%s)", name, l.Name, l.ID)

	if len(l.Members) == 0 {
		e.lobbies.Remove(l.ID)
		e.log.Infof("engine: lobby %s deleted, no players remaining", l.ID)
		e.broadcastLobbyList()
		return
	}
	e.caster.SendToLobby(memberIDs(l), protocol.EventPlayerLeft, protocol.PlayerLeftPayload{
		PlayerName:  name,
		PlayerCount: len(l.Members),
		Players:     rosterEntries(l),
	})
}

// handlePlayerReady marks the requester ready and runs the start barrier.
// The barrier check happens in the same synchronous step as the flag update,
// so it fires at most once per lobby.
func (e *Engine) handlePlayerReady(c PlayerReady) error {
	p, ok := e.directory.Get(c.ConnID)
	if !ok || p.LobbyID == "" {
		return &ConflictError{Message: "You are not in a lobby"}
	}
	l, ok := e.lobbies.Get(p.LobbyID)
	if !ok {
		return &NotFoundError{Message: "Lobby not found"}
	}
	if l.Status != models.StatusWaiting {
		return &ConflictError{Message: "Game already in progress"}
	}
	if len(l.Members) < models.LobbyCapacity {
		return &ConflictError{Message: "Need 2 players to start game"}
	}
	m := l.Member(p.ID)
	if m == nil {
		return &NotFoundError{Message: "Player not found in lobby"}
	}

	m.Ready = true
	e.log.Infof("engine: %s is ready in lobby %s", m.Name, l.ID)

	e.caster.SendToLobby(memberIDs(l), protocol.EventPlayerReadyUpdate, protocol.ReadyUpdatePayload{
		PlayerName: m.Name,
		Players:    rosterEntries(l),
	})

	if l.IsFull() && l.AllReady() {
		e.startMatch(l)
	}
	return nil
}

// startMatch flips a lobby to playing, attaches the problem and announces
// game_start. Callers have already verified the barrier condition.
func (e *Engine) startMatch(l *models.Lobby) {
	l.Status = models.StatusPlaying
	l.StartedAt = e.now()
	problem := e.problems.Default()
	l.Problem = &problem

	e.log.Infof("engine: game started in lobby %s, all players ready", l.ID)

	e.caster.SendToLobby(memberIDs(l), protocol.EventGameStart, protocol.GameStartPayload{
		Problem:   l.Problem,
		Players:   playerRefs(l),
		TimeLimit: problem.TimeLimit,
	})
	// The lobby just disappeared from waiting listings.
	e.broadcastLobbyList()
}

// resolveName picks the display name for a lobby action: the requested name
// if given, else the participant's previous name, else a deterministic
// fallback. The chosen name sticks to the participant.
func (e *Engine) resolveName(p *models.Participant, requested string) string {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = p.DisplayName()
	}
	p.Name = name
	return name
}

// validPin reports whether pin is exactly four ASCII digits.
func validPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func memberIDs(l *models.Lobby) []string {
	ids := make([]string, len(l.Members))
	for i, m := range l.Members {
		ids[i] = m.ID
	}
	return ids
}

func rosterEntries(l *models.Lobby) []protocol.RosterEntry {
	entries := make([]protocol.RosterEntry, len(l.Members))
	for i, m := range l.Members {
		entries[i] = protocol.RosterEntry{ID: m.ID, Name: m.Name, Ready: m.Ready}
	}
	return entries
}

func playerRefs(l *models.Lobby) []protocol.PlayerRef {
	refs := make([]protocol.PlayerRef, len(l.Members))
	for i, m := range l.Members {
		refs[i] = protocol.PlayerRef{ID: m.ID, Name: m.Name}
	}
	return refs
}

// lobbyData projects a lobby for its own members. The pin never crosses the
// wire, even to members.
func lobbyData(l *models.Lobby) protocol.LobbyData {
	return protocol.LobbyData{
		ID:         l.ID,
		Name:       l.Name,
		Type:       string(l.Visibility),
		Status:     string(l.Status),
		Players:    rosterEntries(l),
		MaxPlayers: models.LobbyCapacity,
		CreatedAt:  l.CreatedAt.Unix(),
	}
}

func errorPayload(err error) protocol.ErrorPayload {
	return protocol.ErrorPayload{Message: err.Error()}
}
