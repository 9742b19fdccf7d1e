package practice

import (
	"time"

	"github.com/abhisek/prepdrill/internal/session"
	"github.com/abhisek/prepdrill/internal/store"
)

// engineViewMsg carries the result of any engine operation.
type engineViewMsg struct {
	View session.View
	Err  error
}

// tickMsg is sent every second to refresh the countdown display.
type tickMsg time.Time

// savedMsg is sent after the finished session has been persisted.
type savedMsg struct {
	Record store.SessionRecord
	Err    error
}
