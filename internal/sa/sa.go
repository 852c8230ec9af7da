package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve запускает отжиг от случайного решения.
func (s *Solver) Solve(ctx context.Context, inst *timetable.Instance, eval *timetable.Evaluator) (opt.Result, error) {
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	seed := timetable.NewSampler(inst).Chromosome(s.Rng)
	return s.Refine(ctx, inst, eval, seed)
}

// Refine выполняет локальное дожигание вокруг переданного решения.
// Отслеживаемое лучшее решение никогда не хуже исходного: принятая
// траектория может ухудшаться, но лучшее хранится отдельно.
func (s *Solver) Refine(ctx context.Context, inst *timetable.Instance, eval *timetable.Evaluator, seed timetable.Chromosome) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if eval == nil {
		return opt.Result{}, fmt.Errorf("оценщик не инициализирован (nil)")
	}
	n := len(inst.Sessions)
	if len(seed) != n {
		return opt.Result{}, fmt.Errorf("длина хромосомы должна быть %d (получено %d)", n, len(seed))
	}

	smp := timetable.NewSampler(inst)

	// Текущее и кандидатное решения
	curr := seed.Clone()
	cand := make(timetable.Chromosome, n)

	currFit := eval.Fitness(curr)
	best := curr.Clone()
	bestFit := currFit

	evals := 1
	iters := 0
	var trace opt.Trace
	trace.Append(bestFit, currFit)

	T := s.Cfg.InitialTemp

	for T > s.Cfg.FinalTemp && iters < s.Cfg.Budget {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := s.result(eval, best, evals, iters, trace, map[string]any{
				"stopped": "context",
				"T":       T,
			})
			res.Duration = time.Since(start)
			return res, err
		}

		for k := 0; k < s.Cfg.IterationsPerTemp && iters < s.Cfg.Budget; k++ {
			// Сосед: пересэмплирование одного случайного гена тем же
			// смещённым генератором, что и мутация GA
			copy(cand, curr)
			smp.Resample(cand, s.Rng.Intn(n), s.Rng)

			candFit := eval.Fitness(cand)
			evals++
			iters++

			delta := candFit - currFit
			accept := false
			if delta <= 0 {
				// Улучшающее решение принимаем всегда
				accept = true
			} else {
				// Критерий Метрополиса:
				// допускает принятие ухудшающих решений
				p := math.Exp(-delta / T)
				if s.Rng.Float64() < p {
					accept = true
				}
			}

			if accept {
				// Обмен ролей текущего и кандидатного решений
				curr, cand = cand, curr
				currFit = candFit

				// Обновление глобально лучшего решения
				if currFit < bestFit {
					bestFit = currFit
					copy(best, curr)
				}
			}

			trace.Append(bestFit, currFit)
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	res := s.result(eval, best, evals, iters, trace, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
	})
	res.Duration = time.Since(start)
	return res, nil
}

func (s *Solver) result(eval *timetable.Evaluator, best timetable.Chromosome, evals, iters int, trace opt.Trace, meta map[string]any) opt.Result {
	res := opt.Result{
		Best:        best.Clone(),
		Evaluations: evals,
		Iterations:  iters,
		Trace:       trace,
		Meta:        meta,
	}
	res.Finalize(eval)
	return res
}
