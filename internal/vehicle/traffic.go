package vehicle

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

const respawnFactor = 1.5

// traffic moves every scripted car along its heading, respawns the ones that
// drifted out of range and tops the list up to the configured count. The
// returned slice never aliases st.Traffic.
func (p Params) traffic(st *State, rng *rand.Rand, dt float64) {
	player := mgl64.Vec2{st.X, st.Z}
	limit := p.Traffic.SpawnRadius * respawnFactor

	// callers may hand in their own cars; new IDs start above all of them
	for _, car := range st.Traffic {
		st.nextTrafficID = max(st.nextTrafficID, car.ID)
	}

	next := make([]TrafficCar, 0, p.Traffic.Count)
	for _, car := range st.Traffic {
		if len(next) == p.Traffic.Count {
			break
		}
		step := car.SpeedKmh / 3.6 * dt
		car.X -= math.Sin(car.Heading) * step
		car.Z -= math.Cos(car.Heading) * step
		if (mgl64.Vec2{car.X, car.Z}).Sub(player).Len() > limit {
			car = p.spawnCar(car.ID, player, rng)
		}
		next = append(next, car)
	}
	for len(next) < p.Traffic.Count {
		st.nextTrafficID++
		next = append(next, p.spawnCar(st.nextTrafficID, player, rng))
	}
	st.Traffic = next
}

// spawnCar places a car on a random point of the spawn ring, snapped into a
// lane of the nearest road line and facing along it.
func (p Params) spawnCar(id uint64, around mgl64.Vec2, rng *rand.Rand) TrafficCar {
	t := p.Traffic
	angle := rng.Float64() * 2 * math.Pi
	dist := t.SpawnRadius * (0.5 + rng.Float64()*0.5)
	pos := around.Add(mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(dist))

	lane := p.Grid.RoadWidth / 4
	if rng.Intn(2) == 0 {
		lane = -lane
	}

	var heading float64
	if rng.Intn(2) == 0 {
		pos[0] = p.nearestLine(pos.X()) + lane
		if rng.Intn(2) == 0 {
			heading = math.Pi
		}
	} else {
		pos[1] = p.nearestLine(pos.Y()) + lane
		heading = math.Pi / 2
		if rng.Intn(2) == 0 {
			heading = -heading
		}
	}

	return TrafficCar{
		ID:       id,
		X:        pos.X(),
		Z:        pos.Y(),
		Heading:  heading,
		SpeedKmh: t.SpeedMin + rng.Float64()*(t.SpeedMax-t.SpeedMin),
		Color:    t.Palette[rng.Intn(len(t.Palette))],
	}
}
