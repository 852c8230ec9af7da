package hybrid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"timeTable/internal/ga"
	"timeTable/internal/logger"
	"timeTable/internal/opt"
	"timeTable/internal/sa"
	"timeTable/internal/timetable"
)

// Solver — гибридный оптимизатор: глобальный поиск генетическим алгоритмом
// с последующим локальным дожиганием лучших особей имитацией отжига.
// Каталоги задачи на время запуска только читаются; популяцией владеет
// исключительно GA, цепочки дожигания работают на независимых копиях.
type Solver struct {
	Cfg Config
	Log logger.Logger
}

// New возвращает гибридный солвер с валидацией конфигурации.
func New(cfg Config, log logger.Logger) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Solver{Cfg: cfg, Log: log}, nil
}

// Solve выполняет полный цикл: GA до его условия остановки, затем
// дожигание, затем выбирается лучший из двух итогов. Отмена контекста —
// штатная ранняя остановка: возвращается лучшее из найденного.
// Недопустимый итог (Feasible == false) — не ошибка.
func (s *Solver) Solve(ctx context.Context, inst *timetable.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	eval, err := timetable.NewEvaluator(inst, s.Cfg.Weights)
	if err != nil {
		return opt.Result{}, err
	}

	seed := s.Cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gaSolver, err := ga.New(s.Cfg.GA, rand.New(rand.NewSource(seed)))
	if err != nil {
		return opt.Result{}, err
	}

	s.Log.Infof("GA: популяция=%d поколений=%d элита=%d", s.Cfg.GA.Population, s.Cfg.GA.Generations, s.Cfg.GA.Elite)
	gaRes, gaErr := gaSolver.Solve(ctx, inst, eval)
	if gaErr != nil && !isCancel(gaErr) {
		return opt.Result{}, gaErr
	}
	s.Log.Infow("GA завершён", map[string]any{
		"fitness":     gaRes.Fitness,
		"hard":        gaRes.Hard,
		"soft":        gaRes.Soft,
		"generations": gaRes.Iterations,
		"evaluations": gaRes.Evaluations,
	})

	best := gaRes
	trace := gaRes.Trace
	evaluations := gaRes.Evaluations
	saIters := 0
	source := "ga"

	// Дожигание пропускается при отменённом контексте: лучшее уже найдено.
	if gaErr == nil {
		saRes, n, err := s.refine(ctx, inst, eval, gaRes, seed)
		if err != nil {
			return opt.Result{}, err
		}
		evaluations += n
		if saRes != nil {
			saIters = saRes.Iterations
			trace = mergeTraces(trace, saRes.Trace)
			if saRes.Fitness < best.Fitness {
				best = *saRes
				source = "sa"
			}
		}
	}

	res := opt.Result{
		Best:        best.Best.Clone(),
		Evaluations: evaluations,
		Iterations:  gaRes.Iterations + saIters,
		Trace:       trace,
		Meta: map[string]any{
			"source":         source,
			"seed":           seed,
			"ga_generations": gaRes.Iterations,
			"sa_iterations":  saIters,
			"chains":         s.Cfg.Chains,
		},
	}
	res.Finalize(eval)
	res.Schedule, err = timetable.Decode(inst, res.Best)
	if err != nil {
		return opt.Result{}, err
	}
	res.Duration = time.Since(start)

	if !res.Feasible {
		// Недопустимость — штатный (хотя и нежелательный) итог: решение
		// возвращается вместе с количеством нарушений.
		s.Log.Warnf("расписание недопустимо: нарушений жёстких ограничений %d", res.Hard)
	} else {
		s.Log.Infof("найдено допустимое расписание: fitness=%.2f за %s", res.Fitness, res.Duration)
	}

	return res, nil
}

// refine запускает одну или несколько параллельных цепочек отжига по
// элитным семенам GA и возвращает лучший итог и суммарное число оценок.
func (s *Solver) refine(ctx context.Context, inst *timetable.Instance, eval *timetable.Evaluator, gaRes opt.Result, seed int64) (*opt.Result, int, error) {
	seeds := []timetable.Chromosome{gaRes.Best}
	if s.Cfg.Chains > 1 {
		if elites, ok := gaRes.Meta["elites"].([]timetable.Chromosome); ok && len(elites) > 0 {
			seeds = nil
			for i := 0; i < s.Cfg.Chains && i < len(elites); i++ {
				seeds = append(seeds, elites[i])
			}
		}
	}

	results := make([]opt.Result, len(seeds))
	errs := make([]error, len(seeds))

	var wg sync.WaitGroup
	for i := range seeds {
		// Каждая цепочка получает собственный производный сид и работает
		// на независимой копии семени.
		solver, err := sa.New(s.Cfg.SA, rand.New(rand.NewSource(seed+int64(i)+1)))
		if err != nil {
			return nil, 0, err
		}
		wg.Add(1)
		go func(i int, solver *sa.Solver) {
			defer wg.Done()
			results[i], errs[i] = solver.Refine(ctx, inst, eval, seeds[i])
		}(i, solver)
	}
	wg.Wait()

	var bestRes *opt.Result
	total := 0
	for i := range results {
		if errs[i] != nil && !isCancel(errs[i]) {
			return nil, 0, fmt.Errorf("цепочка дожигания %d: %w", i, errs[i])
		}
		if results[i].Best == nil {
			continue
		}
		total += results[i].Evaluations
		if bestRes == nil || results[i].Fitness < bestRes.Fitness {
			bestRes = &results[i]
		}
	}
	if bestRes != nil {
		s.Log.Infow("дожигание завершено", map[string]any{
			"chains":  len(seeds),
			"fitness": bestRes.Fitness,
			"hard":    bestRes.Hard,
		})
	}
	return bestRes, total, nil
}

// mergeTraces сшивает трассы GA и SA в одну, сохраняя монотонность
// колонки лучшего значения.
func mergeTraces(a, b opt.Trace) opt.Trace {
	out := make(opt.Trace, 0, len(a)+len(b))
	out = append(out, a...)
	runBest := math.Inf(1)
	if len(a) > 0 {
		runBest = a[len(a)-1].Best
	}
	for _, p := range b {
		if p.Best < runBest {
			runBest = p.Best
		}
		out = append(out, opt.TracePoint{Step: len(out), Best: runBest, Current: p.Current})
	}
	return out
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
