// internal/match/session.go
package match

import (
	"strings"

	"github.com/google/uuid"
)

// maxUsernameLen caps client-chosen display names.
const maxUsernameLen = 16

// defaultTankName is used until the client's first join supplies one.
const defaultTankName = "tank"

// Conn is the transport half of a session as the matchmaker sees it: a
// best-effort outbound message sink plus a way to force the channel closed.
// Send must never block; sends to a closed or backed-up channel are dropped.
type Conn interface {
	Send(msg map[string]interface{})
	Close()
}

// Session is the per-connection record tracked by the registry. A session
// either sits in at most one waiting bucket or belongs to exactly one room,
// never both.
type Session struct {
	// ID is minted fresh for every channel and is what the wire protocol
	// carries; it is never shared between live sessions.
	ID uuid.UUID
	// PlayerID is the stable identity from the guest cookie. Two tabs of
	// the same browser share a PlayerID but never an ID.
	PlayerID uuid.UUID

	Mode     Mode
	Tier     int
	TankName string
	Username string

	// Room is set exactly once, when the session is matched, and points at
	// the room until the session is torn down.
	Room *Room

	conn Conn
}

// PlayerInfo is the public view of a session, snapshotted into a room at
// creation time.
type PlayerInfo struct {
	ID       string `json:"id"`
	TankName string `json:"tankName"`
	Username string `json:"username"`
}

func (s *Session) info() PlayerInfo {
	return PlayerInfo{
		ID:       s.ID.String(),
		TankName: s.TankName,
		Username: s.Username,
	}
}

// sanitizeUsername trims whitespace and enforces the display-name cap. The
// cap counts runes so a multi-byte name is never cut mid-character.
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxUsernameLen {
		name = string(runes[:maxUsernameLen])
	}
	return name
}
