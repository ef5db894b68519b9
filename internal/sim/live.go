package sim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/stickshift/internal/control"
	"github.com/san-kum/stickshift/internal/vehicle"
)

// Live runs the simulation on its own goroutine against the wall clock.
// Readers only ever see whole frames through Snapshot.
type Live struct {
	vehicle   *vehicle.Simulator
	driver    control.Driver
	interval  time.Duration
	maxDt     float64
	observers []Observer
	log       zerolog.Logger

	snap    atomic.Pointer[vehicle.State]
	elapsed atomic.Int64 // simulated nanoseconds
	st      vehicle.State
}

func NewLive(v *vehicle.Simulator, driver control.Driver, st0 vehicle.State, hz int) *Live {
	if hz <= 0 {
		hz = 60
	}
	l := &Live{
		vehicle:  v,
		driver:   driver,
		interval: time.Second / time.Duration(hz),
		maxDt:    v.Params().MaxDt,
		log:      zerolog.Nop(),
		st:       st0.Clone(),
	}
	l.publish()
	return l
}

// AddObserver must be called before Run.
func (l *Live) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Live) SetLogger(lg zerolog.Logger) { l.log = lg }

// Snapshot returns the latest published frame. The copy is the caller's.
func (l *Live) Snapshot() vehicle.State {
	return l.snap.Load().Clone()
}

// Elapsed is the simulated time so far.
func (l *Live) Elapsed() time.Duration {
	return time.Duration(l.elapsed.Load())
}

// Run steps once per tick with the measured wall time since the previous
// tick until ctx is done.
func (l *Live) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Info().Dur("interval", l.interval).Msg("live loop started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.log.Info().Dur("elapsed", l.Elapsed()).Msg("live loop stopped")
			return nil
		case now := <-ticker.C:
			l.step(now.Sub(last).Seconds())
			last = now
		}
	}
}

func (l *Live) step(dt float64) {
	dt = min(dt, l.maxDt)
	t := l.Elapsed().Seconds()

	cmd := l.driver.Compute(l.st, t)
	l.st = control.Apply(l.vehicle, l.st, cmd.Ignition)
	l.st = l.vehicle.Advance(l.st, cmd.Input, dt)
	l.elapsed.Add(int64(dt * float64(time.Second)))

	for _, obs := range l.observers {
		obs.OnStep(l.st, cmd.Input, t+dt)
	}
	l.publish()
}

func (l *Live) publish() {
	// Advance never aliases its input, so the published frame is immutable.
	frame := l.st
	l.snap.Store(&frame)
}
