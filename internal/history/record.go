// internal/history/record.go
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
)

// Event discriminates the record kinds pushed onto the history queue.
const (
	EventRoomCreated = "room_created"
	EventRoomClosed  = "room_closed"
)

// MatchRecord is the minimal room lifecycle info the historian persists.
type MatchRecord struct {
	Event     string      `json:"event"`
	RoomID    uuid.UUID   `json:"room_id"`
	Mode      string      `json:"mode"`
	Tier      int         `json:"tier"`
	HostID    uuid.UUID   `json:"host_id"`
	PlayerIDs []uuid.UUID `json:"player_ids"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func recordFor(event string, r *match.Room, reason string) MatchRecord {
	return MatchRecord{
		Event:     event,
		RoomID:    r.ID,
		Mode:      string(r.Mode),
		Tier:      r.Tier,
		HostID:    r.Host().ID,
		PlayerIDs: r.PlayerIDs(),
		Reason:    reason,
		Timestamp: time.Now().UnixMilli(),
	}
}
