package control

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stickshift/internal/vehicle"
)

// Ramp is a value that moves linearly over a phase. In YAML it is either a
// scalar (held constant) or a two-element [from, to] sequence.
type Ramp struct {
	From, To float64
}

func Hold(v float64) Ramp { return Ramp{From: v, To: v} }

func (r Ramp) At(frac float64) float64 {
	return r.From + (r.To-r.From)*frac
}

func (r *Ramp) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		*r = Hold(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := n.Decode(&vs); err != nil {
			return err
		}
		if len(vs) != 2 {
			return fmt.Errorf("line %d: ramp needs [from, to], got %d values", n.Line, len(vs))
		}
		*r = Ramp{From: vs[0], To: vs[1]}
		return nil
	}
	return fmt.Errorf("line %d: ramp must be a number or [from, to]", n.Line)
}

func (r Ramp) MarshalYAML() (interface{}, error) {
	if r.From == r.To {
		return r.From, nil
	}
	return []float64{r.From, r.To}, nil
}

// Phase is one timed segment of a script.
type Phase struct {
	Name     string       `yaml:"name,omitempty"`
	Duration float64      `yaml:"duration"`
	Gear     vehicle.Gear `yaml:"gear"`
	Gas      Ramp         `yaml:"gas"`
	Brake    Ramp         `yaml:"brake"`
	Clutch   Ramp         `yaml:"clutch"`
	Steering Ramp         `yaml:"steering"`
	Ignition string       `yaml:"ignition,omitempty"` // on, off or toggle
}

func (ph Phase) key() (Ignition, error) {
	switch ph.Ignition {
	case "":
		return KeyNone, nil
	case "on":
		return KeyOn, nil
	case "off":
		return KeyOff, nil
	case "toggle":
		return KeyToggle, nil
	}
	return KeyNone, fmt.Errorf("phase %q: unknown ignition %q", ph.Name, ph.Ignition)
}

// Script plays phases back to back. After the last phase it keeps the final
// phase's end values.
type Script struct {
	phases []Phase
	keys   []Ignition
	fired  []bool
}

func NewScript(phases []Phase) (*Script, error) {
	if len(phases) == 0 {
		return nil, fmt.Errorf("script has no phases")
	}
	s := &Script{
		phases: phases,
		keys:   make([]Ignition, len(phases)),
		fired:  make([]bool, len(phases)),
	}
	for i, ph := range phases {
		if ph.Duration <= 0 {
			return nil, fmt.Errorf("phase %d (%s): duration must be positive", i, ph.Name)
		}
		k, err := ph.key()
		if err != nil {
			return nil, err
		}
		s.keys[i] = k
	}
	return s, nil
}

// Duration is the total scripted time.
func (s *Script) Duration() float64 {
	var d float64
	for _, ph := range s.phases {
		d += ph.Duration
	}
	return d
}

func (s *Script) Compute(st vehicle.State, t float64) Command {
	idx, frac := s.locate(t)
	ph := s.phases[idx]

	cmd := Command{Input: vehicle.Input{
		Gas:      ph.Gas.At(frac),
		Brake:    ph.Brake.At(frac),
		Clutch:   ph.Clutch.At(frac),
		Steering: ph.Steering.At(frac),
		Gear:     ph.Gear,
	}}
	// a long frame may skip a short phase; its key still turns
	for i := 0; i <= idx; i++ {
		if s.fired[i] {
			continue
		}
		s.fired[i] = true
		if s.keys[i] != KeyNone {
			cmd.Ignition = s.keys[i]
		}
	}
	return cmd
}

func (s *Script) locate(t float64) (int, float64) {
	start := 0.0
	for i, ph := range s.phases {
		if t < start+ph.Duration {
			return i, (t - start) / ph.Duration
		}
		start += ph.Duration
	}
	return len(s.phases) - 1, 1
}

// Reset rearms the ignition actions so the script can be replayed.
func (s *Script) Reset() {
	for i := range s.fired {
		s.fired[i] = false
	}
}
