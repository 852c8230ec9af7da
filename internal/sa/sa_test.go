package sa

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeTable/internal/timetable"
)

func refineInstance(t *testing.T) (*timetable.Instance, *timetable.Evaluator) {
	t.Helper()
	inst := &timetable.Instance{
		Rooms: []timetable.Room{
			{ID: "A1", Capacity: 100, Type: timetable.RoomAmphitheater},
			{ID: "C1", Capacity: 40, Type: timetable.RoomClassroom},
		},
		Groups: []timetable.Group{
			{Name: "G1", Size: 30},
			{Name: "G2", Size: 25},
		},
		Sessions: []timetable.Session{
			{Name: "A", Type: timetable.SessionLecture, TeacherID: "T1", Groups: []string{"G1"}, Duration: 1},
			{Name: "B", Type: timetable.SessionLecture, TeacherID: "T1", Groups: []string{"G2"}, Duration: 1},
			{Name: "C", Type: timetable.SessionLecture, TeacherID: "T2", Groups: []string{"G1"}, Duration: 1},
		},
		Days:        5,
		SlotsPerDay: 6,
	}
	require.NoError(t, inst.Validate())

	eval, err := timetable.NewEvaluator(inst, timetable.DefaultWeights())
	require.NoError(t, err)
	return inst, eval
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Budget = 5_000
	return cfg
}

func TestRefineNeverWorseThanSeed(t *testing.T) {
	inst, eval := refineInstance(t)
	rng := rand.New(rand.NewSource(13))

	// Заведомо плохое семя: все занятия в одном слоте одной аудитории
	seed := timetable.Chromosome{{Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}}
	seedFit := eval.Fitness(seed)

	s, err := New(testConfig(), rng)
	require.NoError(t, err)

	res, err := s.Refine(context.Background(), inst, eval, seed)
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Fitness, seedFit)
	// Переданное семя не модифицируется
	assert.Equal(t, timetable.Gene{Day: 0, Start: 0, Room: 0}, seed[0])
}

func TestRefineResolvesConflicts(t *testing.T) {
	inst, eval := refineInstance(t)
	seed := timetable.Chromosome{{Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}}

	s, err := New(testConfig(), rand.New(rand.NewSource(21)))
	require.NoError(t, err)

	res, err := s.Refine(context.Background(), inst, eval, seed)
	require.NoError(t, err)

	// Бюджета в тысячи шагов достаточно, чтобы развести три занятия
	assert.Equal(t, 0, res.Hard)
	assert.True(t, res.Feasible)
}

func TestRefineZeroBudget(t *testing.T) {
	inst, eval := refineInstance(t)
	seed := timetable.Chromosome{{Day: 1, Start: 2, Room: 1}, {Day: 2, Start: 3, Room: 0}, {Day: 3, Start: 1, Room: 0}}

	cfg := DefaultConfig()
	cfg.Budget = 0
	s, err := New(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := s.Refine(context.Background(), inst, eval, seed)
	require.NoError(t, err)

	// Нулевой бюджет: дожигание выключено, возвращается само семя
	assert.Equal(t, seed, res.Best)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, eval.Fitness(seed), res.Fitness)
}

func TestRefineSeedLengthMismatch(t *testing.T) {
	inst, eval := refineInstance(t)

	s, err := New(testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = s.Refine(context.Background(), inst, eval, timetable.Chromosome{{}})
	assert.Error(t, err)
}

func TestRefineContextCancel(t *testing.T) {
	inst, eval := refineInstance(t)
	seed := timetable.Chromosome{{Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}}

	s, err := New(testConfig(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Refine(ctx, inst, eval, seed)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Best, len(inst.Sessions))
	assert.Equal(t, "context", res.Meta["stopped"])
}

func TestSolveFromRandomStart(t *testing.T) {
	inst, eval := refineInstance(t)

	s, err := New(testConfig(), rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst, eval)
	require.NoError(t, err)
	assert.Len(t, res.Best, len(inst.Sessions))
	assert.Equal(t, 0, res.Hard)
}

func TestTraceBestMonotone(t *testing.T) {
	inst, eval := refineInstance(t)
	seed := timetable.Chromosome{{Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}, {Day: 0, Start: 0, Room: 0}}

	cfg := testConfig()
	cfg.Budget = 500
	s, err := New(cfg, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	res, err := s.Refine(context.Background(), inst, eval, seed)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)

	for i := 1; i < len(res.Trace); i++ {
		assert.LessOrEqual(t, res.Trace[i].Best, res.Trace[i-1].Best)
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := []func(*Config){
		func(c *Config) { c.InitialTemp = 0 },
		func(c *Config) { c.FinalTemp = -1 },
		func(c *Config) { c.FinalTemp = c.InitialTemp * 2 },
		func(c *Config) { c.Alpha = 0 },
		func(c *Config) { c.Alpha = 1 },
		func(c *Config) { c.IterationsPerTemp = 0 },
		func(c *Config) { c.Budget = -1 },
	}
	for _, mut := range cases {
		cfg := DefaultConfig()
		mut(&cfg)
		assert.Error(t, cfg.Validate())
	}
}
