// internal/match/lifecycle.go
package match

// matchEndedNotice is sent to surviving members before their channels are
// closed.
const matchEndedNotice = "A player disconnected. Match ended."

// Disconnect unwinds a closing connection. Channel closure and channel error
// are treated identically. In order: the session leaves any waiting bucket
// (deleting the bucket and cancelling its window if emptied), its room — if
// any — is dissolved for everyone, and the session is dropped from the
// registry. Calling this for an already-cleaned-up connection is a no-op.
func (m *Matchmaker) Disconnect(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[c]
	if !ok {
		return
	}

	if s.Mode != "" {
		key := bucketKey{Mode: s.Mode, Tier: s.Tier}
		if b, ok := m.buckets[key]; ok && b.remove(s) {
			m.log.Debugf("session %s left %s tier %d queue (%d remain)", s.ID, key.Mode, key.Tier, len(b.queue))
			if len(b.queue) == 0 {
				m.deleteBucketLocked(b)
			}
		}
	}

	if r := s.Room; r != nil {
		if _, live := m.rooms[r.ID]; live {
			m.log.Infof("room %s dissolved: session %s disconnected", r.ID, s.ID)
			notice := infoMsg(matchEndedNotice)
			for _, member := range r.members {
				if member.sess == s {
					continue
				}
				member.sess.conn.Send(notice)
				member.sess.conn.Close()
			}
			delete(m.rooms, r.ID)
			if m.recorder != nil {
				m.recorder.RoomClosed(r, "player_disconnected")
			}
		}
	}

	delete(m.sessions, c)
	m.log.Infof("session %s removed", s.ID)
}
