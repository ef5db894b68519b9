package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/stickshift/internal/sim"
	"github.com/san-kum/stickshift/internal/vehicle"
)

type ExportFrame struct {
	Time     float64       `json:"t"`
	RPM      float64       `json:"rpm"`
	SpeedKmh float64       `json:"speed_kmh"`
	X        float64       `json:"x"`
	Z        float64       `json:"z"`
	Heading  float64       `json:"heading"`
	TireSlip float64       `json:"tire_slip"`
	EngineOn bool          `json:"engine_on"`
	Stalled  bool          `json:"stalled"`
	Distance float64       `json:"distance"`
	Input    vehicle.Input `json:"input"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(samples)),
	}
	for i, smp := range samples {
		st := smp.State
		data.Frames[i] = ExportFrame{
			Time:     smp.Time,
			RPM:      st.RPM,
			SpeedKmh: st.SpeedKmh,
			X:        st.X,
			Z:        st.Z,
			Heading:  st.Heading,
			TireSlip: st.TireSlip,
			EngineOn: st.EngineOn,
			Stalled:  st.Stalled,
			Distance: st.DistanceTraveled,
			Input:    smp.Input,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
