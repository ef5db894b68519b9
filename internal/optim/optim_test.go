package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/stickshift/internal/vehicle"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{-1, 0, 1, 2}, {0, 3}})
	assert.Equal(t, 8, g.Points())

	calls := 0
	best, score, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		calls++
		return (p["x"]-1)*(p["x"]-1) + (p["y"]-3)*(p["y"]-3), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 8, calls)
	assert.Equal(t, map[string]float64{"x": 1, "y": 3}, best)
	assert.Zero(t, score)
}

func TestGridSearchAllInfinite(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	best, score, err := g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return math.Inf(1), nil
	})
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.True(t, math.IsInf(score, 1))
}

func TestGridSearchErrors(t *testing.T) {
	zero := func(context.Context, map[string]float64) (float64, error) { return 0, nil }

	_, _, err := NewGridSearch([]string{"x"}, nil).Search(context.Background(), zero)
	assert.Error(t, err)

	_, _, err = NewGridSearch([]string{"x"}, [][]float64{{}}).Search(context.Background(), zero)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, _, err = NewGridSearch([]string{"x"}, [][]float64{{1}}).Search(context.Background(),
		func(context.Context, map[string]float64) (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewGridSearch([]string{"x"}, [][]float64{{1}}).Search(ctx, zero)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	got := Linspace(0.2, 4, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.2, got[0], 1e-12)
	assert.InDelta(t, 2.1, got[1], 1e-12)
	assert.Equal(t, 4.0, got[2])
}

func TestLaunchPrefersSlowRelease(t *testing.T) {
	l := Launch{
		Params:    vehicle.DefaultParams(),
		Gear:      vehicle.First,
		TargetKmh: 5,
		Hold:      2,
		Dt:        1.0 / 60,
	}
	obj := l.Objective()

	dumped, err := obj(context.Background(), map[string]float64{ParamRelease: 0.2, ParamGas: 0.5})
	require.NoError(t, err)
	assert.True(t, math.IsInf(dumped, 1), "a stalled launch never wins")

	g := NewGridSearch([]string{ParamRelease, ParamGas}, [][]float64{{0.2, 4}, {0.5}})
	best, score, err := g.Search(context.Background(), obj)
	require.NoError(t, err)
	assert.Equal(t, 4.0, best[ParamRelease])
	assert.Greater(t, score, 0.5)
	assert.False(t, math.IsInf(score, 1))
}

func TestLaunchRejectsMissingParams(t *testing.T) {
	obj := Launch{Params: vehicle.DefaultParams(), Gear: vehicle.First, TargetKmh: 5, Dt: 0.01}.Objective()

	_, err := obj(context.Background(), map[string]float64{ParamGas: 0.5})
	assert.Error(t, err)
	_, err = obj(context.Background(), map[string]float64{ParamRelease: 1})
	assert.Error(t, err)
}
