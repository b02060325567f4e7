// internal/match/mode.go
package match

// Mode identifies a game mode a client can queue for. Each mode fixes its
// own room-size semantics: the exact-size modes fill immediately, FreeForAll
// starts between its quorum and cap after a deferred window.
type Mode string

const (
	ModeOneVOne    Mode = "1v1"
	ModeTwoVTwo    Mode = "2v2"
	ModeFreeForAll Mode = "ffa"
)

// FreeForAll quorum and cap.
const (
	ffaQuorum = 2
	ffaCap    = 6
)

// ParseMode maps a client-supplied mode string onto a known Mode.
// Unrecognized input falls back to FreeForAll.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeOneVOne, ModeTwoVTwo, ModeFreeForAll:
		return Mode(s)
	default:
		return ModeFreeForAll
	}
}

// Sizes returns the minimum and maximum room size for the mode. The two are
// equal for exact-size modes.
func (m Mode) Sizes() (min, max int) {
	switch m {
	case ModeOneVOne:
		return 2, 2
	case ModeTwoVTwo:
		return 4, 4
	default:
		return ffaQuorum, ffaCap
	}
}

// Exact reports whether the mode requires an exact player count.
func (m Mode) Exact() bool {
	min, max := m.Sizes()
	return min == max
}
