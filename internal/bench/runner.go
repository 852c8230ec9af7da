package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case — конфигурация генерируемого экземпляра задачи.
type Case struct {
	Sessions     int
	Rooms        int
	Groups       int
	Teachers     int
	InstanceSeed int64
}

type Record struct {
	Algo     string
	Sessions int
	Rooms    int
	Runs     int
	Feasible int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	FitnessBest float64
	FitnessMean float64
	FitnessStd  float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	Days          int
	SlotsPerDay   int
	Weights       timetable.Weights
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	days := r.Days
	if days <= 0 {
		days = 5
	}
	slots := r.SlotsPerDay
	if slots <= 0 {
		slots = 8
	}
	w := r.Weights
	if w.Hard == 0 {
		w = timetable.DefaultWeights()
	}

	instRng := randForSeed(c.InstanceSeed)
	inst := timetable.RandomInstance(c.Sessions, c.Rooms, c.Groups, c.Teachers, days, slots, instRng)
	eval, err := timetable.NewEvaluator(inst, w)
	if err != nil {
		return Record{}, err
	}

	fitnesses := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	feasible := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op := algo.Factory(runSeed)

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst, eval)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if len(res.Best) != len(inst.Sessions) {
			return Record{}, fmt.Errorf("run %d: invalid chromosome length %d (want %d)", i, len(res.Best), len(inst.Sessions))
		}

		fitnesses = append(fitnesses, res.Fitness)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		if res.Feasible {
			feasible++
		}
	}

	fStats := Calc(fitnesses)
	tStats := Calc(timesMs)

	return Record{
		Algo:     algo.Name,
		Sessions: c.Sessions,
		Rooms:    c.Rooms,
		Runs:     r.Runs,
		Feasible: feasible,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		FitnessBest: fStats.Best,
		FitnessMean: fStats.Mean,
		FitnessStd:  fStats.Std,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "sessions", "rooms", "runs", "feasible",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"fitness_best", "fitness_mean", "fitness_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			itoa(r.Sessions),
			itoa(r.Rooms),
			itoa(r.Runs),
			itoa(r.Feasible),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.FitnessBest),
			ftoa(r.FitnessMean),
			ftoa(r.FitnessStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func randForSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
