package world

import "fmt"

// GameLog is the player-facing message log, oldest entry first.
type GameLog struct {
	Entries []string `json:"entries"`
}

func NewGameLog(first ...string) *GameLog {
	return &GameLog{Entries: append([]string(nil), first...)}
}

func (l *GameLog) Add(msg string) { l.Entries = append(l.Entries, msg) }

func (l *GameLog) Addf(format string, args ...any) {
	l.Entries = append(l.Entries, fmt.Sprintf(format, args...))
}

// Last returns up to n most recent entries, newest last.
func (l *GameLog) Last(n int) []string {
	if n >= len(l.Entries) {
		return l.Entries
	}
	return l.Entries[len(l.Entries)-n:]
}
