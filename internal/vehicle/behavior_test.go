package vehicle_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stickshift/internal/vehicle"
)

const frameDt = 1.0 / 60

var _ = Describe("Simulator", func() {
	var (
		params vehicle.Params
		sim    *vehicle.Simulator
	)

	BeforeEach(func() {
		params = vehicle.DefaultParams()
		params.Traffic.Count = 0
		sim = vehicle.MustNew(params, 42)
	})

	Describe("a parked car", func() {
		It("stays exactly where it is under zero input", func() {
			st := vehicle.NewState()
			for i := 0; i < 300; i++ {
				st = sim.Advance(st, vehicle.Input{}, frameDt)
			}
			Expect(st.Traffic).To(BeEmpty())
			st.Traffic = nil
			Expect(st).To(Equal(vehicle.NewState()))
		})
	})

	Describe("stalling", func() {
		It("stalls when the clutch is dumped in first at a standstill", func() {
			st := sim.Ignite(vehicle.NewState())
			st = sim.Advance(st, vehicle.Input{Gear: vehicle.First}, 0.1)

			Expect(st.Stalled).To(BeTrue())
			Expect(st.EngineOn).To(BeFalse())
			Expect(st.RPM).To(BeZero())
			Expect(st.SpeedKmh).To(BeNumerically(">", 0), "hard stall lurches forward")
		})

		It("restarts at idle after ignition", func() {
			st := sim.Ignite(vehicle.NewState())
			st = sim.Advance(st, vehicle.Input{Gear: vehicle.First}, 0.1)
			st = sim.Ignite(st)

			Expect(st.EngineOn).To(BeTrue())
			Expect(st.Stalled).To(BeFalse())
			Expect(st.RPM).To(Equal(params.Engine.IdleRPM))
		})

		It("lets the engine die under heavy load without throttle", func() {
			st := sim.Ignite(vehicle.NewState())
			st.Gear = vehicle.Third
			st.SpeedKmh = 6

			for i := 0; i < 120 && !st.Stalled; i++ {
				st = sim.Advance(st, vehicle.Input{Gear: vehicle.Third}, frameDt)
			}
			Expect(st.Stalled).To(BeTrue())
			Expect(st.RPM).To(BeZero())
		})
	})

	Describe("rev limiter", func() {
		It("never lets rpm pass the maximum in first at full throttle", func() {
			st := sim.Ignite(vehicle.NewState())
			st.Gear = vehicle.First
			st.SpeedKmh = 20
			st.RPM = params.TargetEngineRPM(vehicle.First, st.Velocity())

			limiterHit := false
			for i := 0; i < 600; i++ {
				st = sim.Advance(st, vehicle.Input{Gas: 1, Gear: vehicle.First}, frameDt)
				Expect(st.RPM).To(BeNumerically("<=", params.Engine.MaxRPM))
				Expect(st.Stalled).To(BeFalse())
				if params.TargetEngineRPM(vehicle.First, st.Velocity()) > params.Engine.MaxRPM+200 {
					limiterHit = true
				}
			}
			Expect(limiterHit).To(BeTrue())
		})
	})

	Describe("clutch bite zone", func() {
		It("is non-increasing in pedal travel with no jump larger than the engagement step", func() {
			for _, g := range []vehicle.Gear{vehicle.Reverse, vehicle.First, vehicle.Fifth} {
				prev := params.LoadFactor(g, 0)
				for i := 1; i <= 1000; i++ {
					cur := params.LoadFactor(g, float64(i)/1000)
					Expect(cur).To(BeNumerically("<=", prev+1e-12))
					Expect(prev - cur).To(BeNumerically("<=", 1-params.Drivetrain.BiteMaxLoad+1e-9))
					prev = cur
				}
			}
		})

		It("decouples neutral entirely", func() {
			for i := 0; i <= 10; i++ {
				Expect(params.LoadFactor(vehicle.Neutral, float64(i)/10)).To(BeZero())
			}
		})
	})

	Describe("grid collision", func() {
		var st vehicle.State

		BeforeEach(func() {
			st = sim.Ignite(vehicle.NewState())
			st.X, st.Z = 9, 40
			st.Heading = -math.Pi / 2
			st.Gear = vehicle.Third
			st.RPM = 2000
		})

		It("holds position and stalls on a fast impact", func() {
			st.SpeedKmh = 36
			st = sim.Advance(st, vehicle.Input{Gas: 0.2, Gear: vehicle.Third}, frameDt)

			Expect(st.X).To(Equal(9.0))
			Expect(st.Z).To(Equal(40.0))
			Expect(st.SpeedKmh).To(BeZero())
			Expect(st.Stalled).To(BeTrue())
			Expect(st.RPM).To(BeZero())
		})

		It("only bumps at walking pace", func() {
			st = sim.KillEngine(st)
			st.RPM = 0
			st.Gear = vehicle.Neutral
			st.SpeedKmh = 7.2
			st = sim.Advance(st, vehicle.Input{}, frameDt)

			Expect(st.X).To(Equal(9.0))
			Expect(st.Z).To(Equal(40.0))
			Expect(st.SpeedKmh).To(BeZero())
			Expect(st.Stalled).To(BeFalse())
		})
	})

	Describe("traffic", func() {
		BeforeEach(func() {
			params = vehicle.DefaultParams()
			sim = vehicle.MustNew(params, 42)
		})

		It("keeps the configured number of cars with unique ids", func() {
			st := sim.Ignite(vehicle.NewState())
			for i := 0; i < 400; i++ {
				st = sim.Advance(st, vehicle.Input{Gas: 0.6, Clutch: 1, Steering: 0.2}, 0.05)
				Expect(st.Traffic).To(HaveLen(params.Traffic.Count))
			}
			seen := map[uint64]bool{}
			for _, c := range st.Traffic {
				Expect(seen).NotTo(HaveKey(c.ID))
				seen[c.ID] = true
			}
		})

		It("spawns cars on the road, inside the ring, aligned with an axis", func() {
			st := sim.Advance(vehicle.NewState(), vehicle.Input{}, frameDt)
			for _, c := range st.Traffic {
				Expect(params.OnRoad(c.X, c.Z)).To(BeTrue(), "car %d at (%.1f, %.1f)", c.ID, c.X, c.Z)
				Expect(math.Hypot(c.X, c.Z)).To(BeNumerically("<", 1.5*params.Traffic.SpawnRadius))
				Expect(c.SpeedKmh).To(BeNumerically(">=", params.Traffic.SpeedMin))
				Expect(c.SpeedKmh).To(BeNumerically("<=", params.Traffic.SpeedMax))
				Expect(params.Traffic.Palette).To(ContainElement(c.Color))
				quarter := c.Heading / (math.Pi / 2)
				Expect(quarter).To(BeNumerically("~", math.Round(quarter), 1e-9))
			}
		})

		It("respawns a car that drifted away without changing its id", func() {
			params.Traffic.Count = 1
			sim = vehicle.MustNew(params, 42)
			st := vehicle.NewState()
			st.Traffic = []vehicle.TrafficCar{{ID: 7, X: 1000, SpeedKmh: 30, Color: "#ffffff"}}

			st = sim.Advance(st, vehicle.Input{}, frameDt)

			Expect(st.Traffic).To(HaveLen(1))
			Expect(st.Traffic[0].ID).To(Equal(uint64(7)))
			Expect(math.Hypot(st.Traffic[0].X, st.Traffic[0].Z)).To(BeNumerically("<", 1.5*params.Traffic.SpawnRadius))
		})
	})

	Describe("torque curve", func() {
		It("reproduces breakpoints and interpolates midpoints", func() {
			for _, pt := range params.Engine.Torque {
				Expect(params.Torque(pt.RPM)).To(Equal(pt.Torque))
			}
			curve := params.Engine.Torque
			for i := 0; i < len(curve)-1; i++ {
				mid := (curve[i].RPM + curve[i+1].RPM) / 2
				Expect(params.Torque(mid)).To(BeNumerically("~", (curve[i].Torque+curve[i+1].Torque)/2, 1e-9))
			}
		})
	})
})
