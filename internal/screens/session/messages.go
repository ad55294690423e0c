package session

import "time"

// tickMsg is sent every second while a timed session runs. id ties the
// tick to the Enter call that started it so stale tick loops stop.
type tickMsg struct {
	id int
	at time.Time
}
