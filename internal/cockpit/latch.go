package cockpit

import "time"

// DefaultHold is how long a key counts as held after its last press. Terminals
// repeat faster than this while a key is down.
const DefaultHold = 150 * time.Millisecond

// Latch tracks keys from press and repeat events only.
type Latch struct {
	hold time.Duration
	last map[string]time.Time
}

func NewLatch(hold time.Duration) *Latch {
	return &Latch{hold: hold, last: make(map[string]time.Time)}
}

func (l *Latch) Press(key string, now time.Time) {
	l.last[key] = now
}

func (l *Latch) Held(key string, now time.Time) bool {
	t, ok := l.last[key]
	return ok && now.Sub(t) < l.hold
}

// Release forgets a key immediately.
func (l *Latch) Release(key string) {
	delete(l.last, key)
}
