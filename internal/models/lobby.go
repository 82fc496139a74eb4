// internal/models/lobby.go
package models

import "time"

// LobbyStatus is the match lifecycle state of a lobby. Transitions are
// monotonic: waiting -> playing -> finished.
type LobbyStatus string

const (
	StatusWaiting  LobbyStatus = "waiting"
	StatusPlaying  LobbyStatus = "playing"
	StatusFinished LobbyStatus = "finished"
)

// Visibility controls whether a lobby shows up in the public listing.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// LobbyCapacity is fixed: every match is a head-to-head duel.
const LobbyCapacity = 2

// Member is one participant's seat in a lobby roster, including their
// scoreboard state once the match is underway.
type Member struct {
	ID    string
	Name  string
	Ready bool

	Code           string
	LastSubmission time.Time
	TestsPassed    int
	TotalTests     int
	Completed      bool
}

// Lobby is an ephemeral matchmaking room holding up to two participants
// before and during one match. A lobby with an empty roster is deleted
// immediately; it never outlives its members.
type Lobby struct {
	ID         string
	Name       string
	Visibility Visibility
	Pin        string // present iff Visibility == VisibilityPrivate
	Status     LobbyStatus

	// Members is the roster in join order.
	Members []*Member

	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time

	Problem  *Problem
	WinnerID string
}

// Member returns the roster entry for the given participant id, or nil.
func (l *Lobby) Member(id string) *Member {
	for _, m := range l.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// RemoveMember drops the participant from the roster, preserving join order.
// Returns true if the participant was present.
func (l *Lobby) RemoveMember(id string) bool {
	for i, m := range l.Members {
		if m.ID == id {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			return true
		}
	}
	return false
}

// IsFull reports whether the roster has reached capacity.
func (l *Lobby) IsFull() bool {
	return len(l.Members) >= LobbyCapacity
}

// AllReady reports whether every roster member has readied up. It does not
// check capacity; the ready barrier requires IsFull() && AllReady().
func (l *Lobby) AllReady() bool {
	for _, m := range l.Members {
		if !m.Ready {
			return false
		}
	}
	return len(l.Members) > 0
}
