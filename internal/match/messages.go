// internal/match/messages.go
package match

import (
	"fmt"

	"github.com/google/uuid"
)

// Outbound message constructors. Every message carries a "type" field; the
// shapes mirror what the client expects on the wire.

func welcomeMsg(id uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"type": "welcome",
		"id":   id.String(),
	}
}

func searchingMsg(have, need int) map[string]interface{} {
	return map[string]interface{}{
		"type":    "roomInfo",
		"roomId":  nil,
		"hostId":  nil,
		"players": []PlayerInfo{},
		"text":    fmt.Sprintf("Searching... %d/%d players", have, need),
	}
}

func matchFoundMsg(r *Room) map[string]interface{} {
	return map[string]interface{}{
		"type":    "roomInfo",
		"roomId":  r.ID.String(),
		"hostId":  r.Host().ID.String(),
		"players": r.Players(),
		"text":    "Match found!",
	}
}

func hostStartMsg() map[string]interface{} {
	return map[string]interface{}{
		"type": "hostStart",
	}
}

func relayedInputMsg(fromID uuid.UUID, payload interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":    "input",
		"fromId":  fromID.String(),
		"payload": payload,
	}
}

func relayedStateMsg(kind string, payload interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":    kind,
		"payload": payload,
	}
}

func infoMsg(text string) map[string]interface{} {
	return map[string]interface{}{
		"type": "info",
		"text": text,
	}
}
