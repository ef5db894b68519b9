package sim

import (
	"sync"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// Recorder is an Observer that keeps every n-th frame. It is safe to read
// from another goroutine while a Live loop writes to it.
type Recorder struct {
	mu      sync.Mutex
	every   int
	seen    int
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) OnStep(st vehicle.State, in vehicle.Input, t float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen++
	if (r.seen-1)%r.every != 0 {
		return
	}
	st.Traffic = nil
	r.samples = append(r.samples, Sample{Time: t, State: st, Input: in})
}

// Samples returns a copy of what has been recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.samples = nil
	r.seen = 0
	r.mu.Unlock()
}
