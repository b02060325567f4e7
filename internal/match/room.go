// internal/match/room.go
package match

import (
	"time"

	"github.com/google/uuid"
)

// Role tags a room membership record. The relay authorizes messages by role
// rather than by comparing session pointers.
type Role int

const (
	RoleMember Role = iota
	RoleHost
)

type roomMember struct {
	sess *Session
	role Role
}

// Room is a fixed group of matched sessions. Membership never changes after
// creation: there are no late joins, and the loss of any member dissolves
// the whole room.
type Room struct {
	ID        uuid.UUID
	Mode      Mode
	Tier      int
	CreatedAt time.Time

	members []roomMember
	players []PlayerInfo
}

// newRoom groups the given sessions in order. The first session (the
// longest-waiting joiner) becomes host.
func newRoom(mode Mode, tier int, sessions []*Session) *Room {
	r := &Room{
		ID:        uuid.New(),
		Mode:      mode,
		Tier:      tier,
		CreatedAt: time.Now(),
		members:   make([]roomMember, 0, len(sessions)),
		players:   make([]PlayerInfo, 0, len(sessions)),
	}
	for i, s := range sessions {
		role := RoleMember
		if i == 0 {
			role = RoleHost
		}
		r.members = append(r.members, roomMember{sess: s, role: role})
		r.players = append(r.players, s.info())
	}
	return r
}

// Host returns the authoritative member.
func (r *Room) Host() *Session {
	for _, m := range r.members {
		if m.role == RoleHost {
			return m.sess
		}
	}
	return nil
}

// RoleOf returns the member's role, or false if the session does not belong
// to this room.
func (r *Room) RoleOf(s *Session) (Role, bool) {
	for _, m := range r.members {
		if m.sess == s {
			return m.role, true
		}
	}
	return RoleMember, false
}

// Players returns the public player info snapshot captured at creation.
func (r *Room) Players() []PlayerInfo {
	return r.players
}

// PlayerIDs returns member identifiers in join order.
func (r *Room) PlayerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.members))
	for _, m := range r.members {
		ids = append(ids, m.sess.ID)
	}
	return ids
}

func (r *Room) size() int { return len(r.members) }
