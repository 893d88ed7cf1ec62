package session

import (
	"sync"

	"github.com/guesswho/guesswho-go/internal/model"
)

// Store tracks which connections are currently in which room. It is the
// source of truth for live room membership; all state is in-process and
// lost on restart.
//
// A connection belongs to at most one room at a time. Operations on unknown
// connections or rooms are no-ops returning empty results.
type Store struct {
	mu    sync.RWMutex
	rooms map[model.RoomID]map[model.ConnectionID]struct{}
	byCon map[model.ConnectionID]model.RoomID
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		rooms: make(map[model.RoomID]map[model.ConnectionID]struct{}),
		byCon: make(map[model.ConnectionID]model.RoomID),
	}
}

// Join adds the connection to the given room, removing it from any room it
// currently occupies. The room is created on first join. Joining the same
// room twice has no additional effect. Returns a snapshot of the updated
// participant set.
func (s *Store) Join(conn model.ConnectionID, room model.RoomID) []model.ConnectionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.byCon[conn]; ok {
		if current == room {
			return s.snapshotLocked(room)
		}
		s.removeLocked(conn, current)
	}

	members, ok := s.rooms[room]
	if !ok {
		members = make(map[model.ConnectionID]struct{})
		s.rooms[room] = members
	}
	members[conn] = struct{}{}
	s.byCon[conn] = room

	return s.snapshotLocked(room)
}

// Leave removes the connection from its current room. The room entry is
// deleted when its last member leaves. No-op if the connection is not in
// any room.
func (s *Store) Leave(conn model.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.byCon[conn]
	if !ok {
		return
	}
	s.removeLocked(conn, room)
}

// Disconnect is equivalent to Leave, invoked when the transport reports
// connection loss. Safe to call after Leave.
func (s *Store) Disconnect(conn model.ConnectionID) {
	s.Leave(conn)
}

// ParticipantsOf returns a snapshot of the connections in the room, or an
// empty slice if the room does not exist.
func (s *Store) ParticipantsOf(room model.RoomID) []model.ConnectionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(room)
}

// RoomOf returns the room the connection is currently in, or "" if none
func (s *Store) RoomOf(conn model.ConnectionID) (model.RoomID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.byCon[conn]
	return room, ok
}

// Contains reports whether the connection is currently a member of the room
func (s *Store) Contains(room model.RoomID, conn model.ConnectionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[room][conn]
	return ok
}

func (s *Store) removeLocked(conn model.ConnectionID, room model.RoomID) {
	delete(s.byCon, conn)
	if members, ok := s.rooms[room]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(s.rooms, room)
		}
	}
}

func (s *Store) snapshotLocked(room model.RoomID) []model.ConnectionID {
	members := s.rooms[room]
	result := make([]model.ConnectionID, 0, len(members))
	for conn := range members {
		result = append(result, conn)
	}
	return result
}
