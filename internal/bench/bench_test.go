package bench

import (
	"context"
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeTable/internal/ga"
	"timeTable/internal/opt"
)

func TestCalc(t *testing.T) {
	s := Calc([]float64{4, 2, 6})
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 2.0, s.Best)
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.Std, 1e-9)
}

func TestCalcEdgeCases(t *testing.T) {
	assert.Equal(t, Stats{}, Calc(nil))

	s := Calc([]float64{3.5})
	assert.Equal(t, 1, s.N)
	assert.Equal(t, 3.5, s.Best)
	assert.Equal(t, 3.5, s.Mean)
	assert.Equal(t, 0.0, s.Std)
}

func gaAlgorithm() Algorithm {
	return Algorithm{
		Name: "GA",
		Factory: func(seed int64) opt.Optimizer {
			cfg := ga.DefaultConfig()
			cfg.Population = 20
			cfg.Generations = 30
			cfg.Elite = 2
			cfg.TournamentSize = 3
			s, err := ga.New(cfg, rand.New(rand.NewSource(seed)))
			if err != nil {
				panic(err)
			}
			return s
		},
	}
}

func TestRunCase(t *testing.T) {
	r := Runner{Runs: 3, BaseSeed: 100, Days: 5, SlotsPerDay: 6}
	c := Case{Sessions: 10, Rooms: 4, Groups: 3, Teachers: 3, InstanceSeed: 7}

	rec, err := r.RunCase(context.Background(), c, gaAlgorithm())
	require.NoError(t, err)

	assert.Equal(t, "GA", rec.Algo)
	assert.Equal(t, 10, rec.Sessions)
	assert.Equal(t, 3, rec.Runs)
	assert.GreaterOrEqual(t, rec.Feasible, 0)
	assert.LessOrEqual(t, rec.Feasible, 3)
	assert.LessOrEqual(t, rec.FitnessBest, rec.FitnessMean)
	assert.False(t, math.IsNaN(rec.FitnessStd))
	assert.Greater(t, rec.TimeMeanMs, 0.0)
}

func TestRunCaseDeterministic(t *testing.T) {
	r := Runner{Runs: 2, BaseSeed: 5, Days: 5, SlotsPerDay: 6}
	c := Case{Sessions: 8, Rooms: 3, Groups: 2, Teachers: 2, InstanceSeed: 3}

	a, err := r.RunCase(context.Background(), c, gaAlgorithm())
	require.NoError(t, err)
	b, err := r.RunCase(context.Background(), c, gaAlgorithm())
	require.NoError(t, err)

	assert.Equal(t, a.FitnessBest, b.FitnessBest)
	assert.Equal(t, a.FitnessMean, b.FitnessMean)
}

func TestWriteCSV(t *testing.T) {
	records := []Record{
		{Algo: "GA", Sessions: 10, Rooms: 4, Runs: 3, Feasible: 3, FitnessBest: 1.5},
		{Algo: "SA", Sessions: 10, Rooms: 4, Runs: 3, Feasible: 2, FitnessBest: 2.5},
	}

	path := filepath.Join(t.TempDir(), "res", "bench.csv")
	require.NoError(t, WriteCSV(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "algo", rows[0][0])
	assert.Equal(t, "GA", rows[1][0])
	assert.Equal(t, "2", rows[2][4])
}
