package control

import (
	"sync"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// Manual passes input set from the UI goroutine to the simulation loop.
type Manual struct {
	mu      sync.Mutex
	in      vehicle.Input
	pending Ignition
}

func NewManual() *Manual {
	return &Manual{}
}

// SetInput replaces the current input.
func (c *Manual) SetInput(in vehicle.Input) {
	c.mu.Lock()
	c.in = in.Clamped()
	c.mu.Unlock()
}

func (c *Manual) Input() vehicle.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in
}

// TurnKey queues an ignition action for the next Compute. A later call
// replaces an unconsumed one.
func (c *Manual) TurnKey(k Ignition) {
	c.mu.Lock()
	c.pending = k
	c.mu.Unlock()
}

// Compute returns the stored input and consumes any queued key turn.
func (c *Manual) Compute(st vehicle.State, t float64) Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd := Command{Input: c.in, Ignition: c.pending}
	c.pending = KeyNone
	return cmd
}
