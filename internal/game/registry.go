package game

import "triviabattle/internal/model"

// Registry owns every live session plus the player -> match reverse index.
// Like Session it is confined to the dispatch goroutine.
type Registry struct {
	sessions map[string]*Session
	byPlayer map[string]string
	order    []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byPlayer: make(map[string]string),
	}
}

// CreateOrGet returns the session for matchID, creating a Waiting one if
// none exists. An existing session is returned unchanged.
func (r *Registry) CreateOrGet(matchID string, mode model.Mode, capacity int) (*Session, bool) {
	if s, ok := r.sessions[matchID]; ok {
		return s, false
	}
	s := NewSession(matchID, mode, capacity)
	r.sessions[matchID] = s
	r.order = append(r.order, matchID)
	return s, true
}

// Get looks up a session
func (r *Registry) Get(matchID string) (*Session, bool) {
	s, ok := r.sessions[matchID]
	return s, ok
}

// Remove drops a session and every index entry pointing at it.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(matchID string) {
	if _, ok := r.sessions[matchID]; !ok {
		return
	}
	for id, m := range r.byPlayer {
		if m == matchID {
			delete(r.byPlayer, id)
		}
	}
	delete(r.sessions, matchID)
	for i, id := range r.order {
		if id == matchID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ResolveByPlayer returns the match a player currently belongs to
func (r *Registry) ResolveByPlayer(playerID string) (string, bool) {
	id, ok := r.byPlayer[playerID]
	return id, ok
}

// Index records that playerID joined matchID
func (r *Registry) Index(playerID, matchID string) {
	r.byPlayer[playerID] = matchID
}

// Unindex forgets playerID's membership
func (r *Registry) Unindex(playerID string) {
	delete(r.byPlayer, playerID)
}

// OpenRandom returns the oldest Waiting random-mode session with room
func (r *Registry) OpenRandom() (*Session, bool) {
	for _, id := range r.order {
		s := r.sessions[id]
		if s.Mode == model.ModeRandom && s.phase == model.PhaseWaiting && !s.starting && !s.Full() {
			return s, true
		}
	}
	return nil, false
}

// ByRoomCode returns the live friends session reserved under code
func (r *Registry) ByRoomCode(code string) (*Session, bool) {
	for _, id := range r.order {
		if s := r.sessions[id]; s.RoomCode == code && s.phase != model.PhaseFinished {
			return s, true
		}
	}
	return nil, false
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return len(r.sessions)
}
