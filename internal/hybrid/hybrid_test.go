package hybrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeTable/internal/timetable"
)

// feasibleInstance — разрешимый экземпляр: три аудитории, два преподавателя,
// две группы, четыре занятия на сетке 5x6.
func feasibleInstance(t *testing.T) *timetable.Instance {
	t.Helper()
	inst := &timetable.Instance{
		Rooms: []timetable.Room{
			{ID: "A1", Capacity: 120, Type: timetable.RoomAmphitheater},
			{ID: "C1", Capacity: 40, Type: timetable.RoomClassroom},
			{ID: "L1", Capacity: 25, Type: timetable.RoomLab},
		},
		Groups: []timetable.Group{
			{Name: "G1", Size: 24},
			{Name: "G2", Size: 20},
		},
		Teachers: []timetable.Teacher{{ID: "T1", Name: "Иванов"}, {ID: "T2", Name: "Петров"}},
		Sessions: []timetable.Session{
			{Name: "Алгебра", Type: timetable.SessionLecture, TeacherID: "T1", Groups: []string{"G1", "G2"}, Duration: 1},
			{Name: "Физика", Type: timetable.SessionLecture, TeacherID: "T2", Groups: []string{"G1"}, Duration: 1},
			{Name: "Практика", Type: timetable.SessionTutorial, TeacherID: "T1", Groups: []string{"G2"}, Duration: 1},
			{Name: "Лабораторная", Type: timetable.SessionLab, TeacherID: "T2", Groups: []string{"G2"}, Duration: 2},
		},
		Days:        5,
		SlotsPerDay: 6,
	}
	require.NoError(t, inst.Validate())
	return inst
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.GA.Population = 40
	cfg.GA.Generations = 120
	cfg.GA.Elite = 4
	cfg.GA.TournamentSize = 3
	cfg.SA.Budget = 5_000
	return cfg
}

func TestSolveEndToEnd(t *testing.T) {
	inst := feasibleInstance(t)

	s, err := New(testConfig(), nil)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Hard)
	assert.True(t, res.Feasible)
	require.Len(t, res.Schedule, len(inst.Sessions))

	// Каждое размещение заполнено и лежит в пределах сетки
	for i, a := range res.Schedule {
		assert.Equal(t, &inst.Sessions[i], a.Session)
		assert.NotNil(t, a.Room)
		assert.GreaterOrEqual(t, int(a.Day), 0)
		assert.Less(t, int(a.Day), inst.Days)
		assert.GreaterOrEqual(t, a.Start, 0)
		assert.LessOrEqual(t, a.Start+a.Duration, inst.SlotsPerDay)
	}
}

func TestSolveDeterministicWithSeed(t *testing.T) {
	inst := feasibleInstance(t)

	run := func() float64 {
		s, err := New(testConfig(), nil)
		require.NoError(t, err)
		res, err := s.Solve(context.Background(), inst)
		require.NoError(t, err)
		return res.Fitness
	}

	assert.Equal(t, run(), run())
}

func TestSolveMinimalBudgets(t *testing.T) {
	inst := feasibleInstance(t)

	// Одно поколение GA и выключенное дожигание: полный ответ без ошибки
	cfg := testConfig()
	cfg.GA.Generations = 1
	cfg.SA.Budget = 0

	s, err := New(cfg, nil)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Len(t, res.Schedule, len(inst.Sessions))
	assert.NotEmpty(t, res.Trace)
}

func TestSolveParallelChains(t *testing.T) {
	inst := feasibleInstance(t)

	cfg := testConfig()
	cfg.Chains = 3
	cfg.SA.Budget = 2_000

	s, err := New(cfg, nil)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Hard)
	assert.Equal(t, 3, res.Meta["chains"])
}

func TestSolveInfeasibleReported(t *testing.T) {
	// Два занятия одного преподавателя на сетке из единственного слота
	inst := &timetable.Instance{
		Rooms:  []timetable.Room{{ID: "C1", Capacity: 40, Type: timetable.RoomClassroom}},
		Groups: []timetable.Group{{Name: "G1", Size: 20}, {Name: "G2", Size: 20}},
		Sessions: []timetable.Session{
			{Name: "A", Type: timetable.SessionLecture, TeacherID: "T1", Groups: []string{"G1"}, Duration: 1},
			{Name: "B", Type: timetable.SessionLecture, TeacherID: "T1", Groups: []string{"G2"}, Duration: 1},
		},
		Days:        1,
		SlotsPerDay: 1,
	}
	require.NoError(t, inst.Validate())

	cfg := testConfig()
	cfg.GA.Generations = 5
	cfg.SA.Budget = 200

	s, err := New(cfg, nil)
	require.NoError(t, err)

	// Недопустимость — не ошибка: решение возвращается с флагом и счётчиком
	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.Greater(t, res.Hard, 0)
	assert.Len(t, res.Schedule, len(inst.Sessions))
}

func TestSolveCancelReturnsBest(t *testing.T) {
	inst := feasibleInstance(t)

	s, err := New(testConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Отмена — штатная ранняя остановка, а не ошибка
	res, err := s.Solve(ctx, inst)
	require.NoError(t, err)
	assert.Len(t, res.Best, len(inst.Sessions))
	assert.Len(t, res.Schedule, len(inst.Sessions))
}

func TestMergedTraceMonotone(t *testing.T) {
	inst := feasibleInstance(t)

	cfg := testConfig()
	cfg.GA.Generations = 30
	cfg.SA.Budget = 500

	s, err := New(cfg, nil)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trace)

	for i := 1; i < len(res.Trace); i++ {
		assert.LessOrEqual(t, res.Trace[i].Best, res.Trace[i-1].Best)
	}
	assert.Equal(t, res.Fitness, res.Trace[len(res.Trace)-1].Best)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Chains = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.GA.Population = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SA.Alpha = 2
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Weights.Hard = 0
	assert.Error(t, cfg.Validate())
}
