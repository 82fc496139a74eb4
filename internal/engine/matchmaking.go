// internal/engine/matchmaking.go
package engine

import (
	"sort"
	"strings"

	"github.com/codeduel-gg/server/internal/models"
	"github.com/codeduel-gg/server/internal/protocol"
)

// DefaultPerPage is the public listing page size.
const DefaultPerPage = 4

// publicLobbies is the matchmaking query: a pure function of current store
// state producing the filtered, searched, paginated listing of public
// waiting lobbies. Lobby counts are small, so it is recomputed on demand.
func (e *Engine) publicLobbies(search string, page, perPage int) protocol.LobbyListPayload {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	// All() iterates in insertion order, so the stable sort below breaks
	// createdAt ties by creation order.
	matched := make([]*models.Lobby, 0)
	needle := strings.ToLower(search)
	for _, l := range e.lobbies.All() {
		if l.Visibility != models.VisibilityPublic || l.Status != models.StatusWaiting {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(l.Name), needle) {
			continue
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	summaries := make([]protocol.LobbySummary, 0, end-start)
	for _, l := range matched[start:end] {
		summaries = append(summaries, protocol.LobbySummary{
			ID:          l.ID,
			Name:        l.Name,
			PlayerCount: len(l.Members),
			MaxPlayers:  models.LobbyCapacity,
			Status:      string(l.Status),
			CreatedAt:   l.CreatedAt.Unix(),
		})
	}

	return protocol.LobbyListPayload{
		Lobbies: summaries,
		Pagination: protocol.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalLobbies: total,
			PerPage:      perPage,
		},
		Search: search,
	}
}

// broadcastLobbyList pushes a fresh first-page listing to every connected
// client after any mutation that changes public visibility.
func (e *Engine) broadcastLobbyList() {
	payload := e.publicLobbies("", 1, DefaultPerPage)
	e.caster.SendToAll(protocol.EventLobbyListUpdate, payload)
}
