package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// maxNotices bounds the notice queue; the oldest are dropped first.
const maxNotices = 10

// Notice is a dismissable message for the user.
type Notice struct {
	ID      uuid.UUID
	Level   Level
	Message string
	At      time.Time
}

func (d *Dashboard) notify(level Level, msg string) Notice {
	n := Notice{ID: uuid.New(), Level: level, Message: msg, At: d.now()}
	d.notices = append(d.notices, n)
	if len(d.notices) > maxNotices {
		d.notices = append([]Notice(nil), d.notices[len(d.notices)-maxNotices:]...)
	}
	return n
}

// Notices returns the pending notices, oldest first.
func (d *Dashboard) Notices() []Notice {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Notice(nil), d.notices...)
}

// DismissNotice removes a notice. Unknown ids are ignored.
func (d *Dashboard) DismissNotice(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, n := range d.notices {
		if n.ID == id {
			d.notices = append(d.notices[:i], d.notices[i+1:]...)
			return
		}
	}
}
