// internal/match/relay.go
package match

// Relay routing. Payloads are opaque at this layer: the relay never
// interprets gameplay semantics, it only routes by message kind and the
// sender's role. Every invalid case below is a silent drop — role-violating
// messages, messages from unmatched sessions, and messages whose room has
// already been dissolved never produce a response or an error.

// RelayInput forwards a control-input payload from a non-host member to the
// room's host, tagged with the sender's identifier. Input from the host
// itself is dropped.
func (m *Matchmaker) RelayInput(c Conn, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, r := m.roomForLocked(c)
	if r == nil {
		return
	}
	role, ok := r.RoleOf(s)
	if !ok || role == RoleHost {
		return
	}
	r.Host().conn.Send(relayedInputMsg(s.ID, payload))
}

// RelayState forwards an initialization or state-snapshot payload from the
// host to every other room member. kind must be "init" or "snapshot"; state
// from a non-host is dropped.
func (m *Matchmaker) RelayState(c Conn, kind string, payload interface{}) {
	if kind != "init" && kind != "snapshot" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, r := m.roomForLocked(c)
	if r == nil {
		return
	}
	role, ok := r.RoleOf(s)
	if !ok || role != RoleHost {
		return
	}

	msg := relayedStateMsg(kind, payload)
	for _, member := range r.members {
		if member.sess == s {
			continue
		}
		member.sess.conn.Send(msg)
	}
}

// roomForLocked resolves the sender's session and its room, dropping stale
// references to rooms that no longer exist in the active set.
func (m *Matchmaker) roomForLocked(c Conn) (*Session, *Room) {
	s, ok := m.sessions[c]
	if !ok || s.Room == nil {
		return nil, nil
	}
	if _, live := m.rooms[s.Room.ID]; !live {
		return s, nil
	}
	return s, s.Room
}
