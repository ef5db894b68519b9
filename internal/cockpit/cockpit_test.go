package cockpit

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/stickshift/internal/vehicle"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestShapePedalRamps(t *testing.T) {
	s := NewShaper(vehicle.DefaultParams())

	tests := []struct {
		name  string
		cur   vehicle.Input
		held  Held
		check func(vehicle.Input) bool
	}{
		{"gas press", vehicle.Input{}, Held{Gas: true}, func(in vehicle.Input) bool { return near(in.Gas, 0.2) }},
		{"gas release", vehicle.Input{Gas: 0.5}, Held{}, func(in vehicle.Input) bool { return near(in.Gas, 0.3) }},
		{"gas capped", vehicle.Input{Gas: 0.95}, Held{Gas: true}, func(in vehicle.Input) bool { return in.Gas == 1 }},
		{"brake press", vehicle.Input{}, Held{Brake: true}, func(in vehicle.Input) bool { return near(in.Brake, 0.3) }},
		{"brake floor", vehicle.Input{Brake: 0.1}, Held{}, func(in vehicle.Input) bool { return in.Brake == 0 }},
		{"clutch press", vehicle.Input{}, Held{Clutch: true}, func(in vehicle.Input) bool { return near(in.Clutch, 0.5) }},
		{"clutch fast release", vehicle.Input{Clutch: 0.9}, Held{}, func(in vehicle.Input) bool { return near(in.Clutch, 0.4) }},
		{"clutch sticky in bite", vehicle.Input{Clutch: 0.5}, Held{}, func(in vehicle.Input) bool { return near(in.Clutch, 0.45) }},
		{"clutch fast below bite", vehicle.Input{Clutch: 0.3}, Held{}, func(in vehicle.Input) bool { return in.Clutch == 0 }},
		{"gear kept", vehicle.Input{Gear: vehicle.Third}, Held{}, func(in vehicle.Input) bool { return in.Gear == vehicle.Third }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Shape(tt.cur, tt.held, Analog{}, 0, 0.1)
			if !tt.check(got) {
				t.Errorf("unexpected result %+v", got)
			}
		})
	}
}

func TestShapeSteering(t *testing.T) {
	s := NewShaper(vehicle.DefaultParams())

	left := s.Shape(vehicle.Input{}, Held{Left: true}, Analog{}, 0, 0.1)
	if !near(left.Steering, 0.2) {
		t.Errorf("left should steer positive, got %v", left.Steering)
	}
	right := s.Shape(vehicle.Input{}, Held{Right: true}, Analog{}, 0, 0.1)
	if !near(right.Steering, -0.2) {
		t.Errorf("right should steer negative, got %v", right.Steering)
	}

	slow := s.Shape(vehicle.Input{Steering: 0.5}, Held{}, Analog{}, 10, 0.1)
	if !near(slow.Steering, 0.3) {
		t.Errorf("slow return expected 0.3, got %v", slow.Steering)
	}
	fast := s.Shape(vehicle.Input{Steering: 0.5}, Held{}, Analog{}, 40, 0.1)
	if !near(fast.Steering, 0.1) {
		t.Errorf("return should scale with speed, got %v", fast.Steering)
	}
	over := s.Shape(vehicle.Input{Steering: -0.1}, Held{}, Analog{}, 0, 0.1)
	if over.Steering != 0 {
		t.Errorf("return should stop at center, got %v", over.Steering)
	}
}

func TestShapeAnalogOverrides(t *testing.T) {
	s := NewShaper(vehicle.DefaultParams())
	got := s.Shape(vehicle.Input{}, Held{Gas: true, Left: true}, Analog{Gas: 0.7, Brake: 0.2, Clutch: 0.55, Steering: -0.4}, 0, 0.1)

	want := vehicle.Input{Gas: 0.7, Brake: 0.2, Clutch: 0.55, Steering: -0.4}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	clamped := s.Shape(vehicle.Input{}, Held{}, Analog{Gas: 3, Steering: -5}, 0, 0.1)
	if clamped.Gas != 1 || clamped.Steering != -1 {
		t.Errorf("analog values must be clamped, got %+v", clamped)
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		from     vehicle.Gear
		up, down vehicle.Gear
	}{
		{vehicle.Reverse, vehicle.Neutral, vehicle.Reverse},
		{vehicle.Neutral, vehicle.First, vehicle.Reverse},
		{vehicle.First, vehicle.Second, vehicle.Neutral},
		{vehicle.Fifth, vehicle.Fifth, vehicle.Fourth},
	}
	for _, tt := range tests {
		if got := ShiftUp(tt.from); got != tt.up {
			t.Errorf("ShiftUp(%s) = %s, want %s", tt.from, got, tt.up)
		}
		if got := ShiftDown(tt.from); got != tt.down {
			t.Errorf("ShiftDown(%s) = %s, want %s", tt.from, got, tt.down)
		}
	}
}

func TestLatch(t *testing.T) {
	l := NewLatch(DefaultHold)
	t0 := time.Unix(0, 0)

	if l.Held("w", t0) {
		t.Error("unpressed key reported held")
	}
	l.Press("w", t0)
	if !l.Held("w", t0.Add(100*time.Millisecond)) {
		t.Error("key should be held inside the window")
	}
	if l.Held("w", t0.Add(DefaultHold)) {
		t.Error("key should expire after the window")
	}

	l.Press("w", t0.Add(140*time.Millisecond))
	if !l.Held("w", t0.Add(200*time.Millisecond)) {
		t.Error("repeat should extend the window")
	}
	l.Release("w")
	if l.Held("w", t0.Add(200*time.Millisecond)) {
		t.Error("released key still held")
	}
}
