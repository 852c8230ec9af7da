package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

// Solver — реализация генетического алгоритма для задачи составления
// расписания занятий.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, inst *timetable.Instance, eval *timetable.Evaluator) (opt.Result, error) {
	start := time.Now()

	// Проверка корректности входных данных и конфигурации
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

	smp := timetable.NewSampler(inst)
	n := len(inst.Sessions)
	popSize := s.Cfg.Population

	// Вспомогательная анонимная функция для создания популяции
	// поверх общего резервного массива генов
	makePop := func() []timetable.Chromosome {
		backing := make([]timetable.Gene, popSize*n)
		pop := make([]timetable.Chromosome, popSize)
		for i := 0; i < popSize; i++ {
			pop[i] = timetable.Chromosome(backing[i*n : (i+1)*n])
		}
		return pop
	}

	// Две популяции: текущая (A) и следующая (B)
	popA := makePop()
	popB := makePop()
	scoresA := make([]float64, popSize)
	scoresB := make([]float64, popSize)

	// Инициализация начальной популяции смещённым генератором:
	// фиксированные аудитории сохраняются, свободные выбираются из
	// совместимых по типу
	for i := 0; i < popSize; i++ {
		for j := 0; j < n; j++ {
			popA[i][j] = smp.Gene(j, s.Rng)
		}
	}
	evalRange(eval, popA, scoresA, 0, s.Cfg.Workers)
	evaluations := popSize

	// Поиск лучшего решения в начальной популяции
	best := popA[0].Clone()
	bestFit := scoresA[0]
	for i := 1; i < popSize; i++ {
		if scoresA[i] < bestFit {
			bestFit = scoresA[i]
			copy(best, popA[i])
		}
	}

	var trace opt.Trace
	trace.Append(bestFit, bestFit)

	// Временный буфер для второго потомка,
	// если в популяции остаётся нечётное число мест
	scratchChild := make(timetable.Chromosome, n)

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}

	stall := 0
	stopped := ""
	gen := 0

	for gen = 0; gen < s.Cfg.Generations; gen++ {
		// Допустимое решение с нулевой мягкой стоимостью улучшить нельзя
		if bestFit == 0 {
			stopped = "optimum"
			break
		}

		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := s.result(eval, best, evaluations, gen, trace, map[string]any{"stopped": "context"})
			res.Duration = time.Since(start)
			return res, err
		}

		// Сортировка индексов по возрастанию значения целевой функции
		sort.Slice(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0

		// Элитизм (переносим лучших особей без изменений)
		for e := 0; e < s.Cfg.Elite; e++ {
			src := idxs[e]
			copy(popB[write], popA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		// Генерация остальных особей нового поколения
		for write < popSize {
			// Турнирный отбор
			p1 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			p2 := tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
			if popSize > 1 {
				for p2 == p1 {
					p2 = tournamentSelect(scoresA, s.Cfg.TournamentSize, s.Rng)
				}
			}

			child1 := popB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = popB[write+1]
			}

			// Кроссовер
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				crossoverTwoPoint(popA[p1], popA[p2], child1, child2, s.Rng)
			} else {
				copy(child1, popA[p1])
				if hasSecond {
					copy(child2, popA[p2])
				}
			}

			// Мутация
			mutate(child1, s.Cfg.MutationRate, smp, s.Rng)
			if hasSecond {
				mutate(child2, s.Cfg.MutationRate, smp, s.Rng)
			}

			write++
			if hasSecond {
				write++
			}
		}

		// Оценка потомков; элита сохраняет значения предыдущего поколения
		evalRange(eval, popB, scoresB, s.Cfg.Elite, s.Cfg.Workers)
		evaluations += popSize - s.Cfg.Elite

		// Чемпион поколения и обновление глобально лучшего решения
		genBest := scoresB[0]
		genBestIdx := 0
		for i := 1; i < popSize; i++ {
			if scoresB[i] < genBest {
				genBest = scoresB[i]
				genBestIdx = i
			}
		}
		if genBest < bestFit {
			bestFit = genBest
			copy(best, popB[genBestIdx])
			stall = 0
		} else {
			stall++
		}

		trace.Append(bestFit, genBest)

		// Смена поколений
		popA, popB = popB, popA
		scoresA, scoresB = scoresB, scoresA

		// Остановка по плато
		if s.Cfg.Patience > 0 && stall >= s.Cfg.Patience {
			stopped = "plateau"
			gen++
			break
		}
	}

	meta := map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
		"elites":      s.elites(popA, scoresA, idxs),
	}
	if stopped != "" {
		meta["stopped"] = stopped
	}

	res := s.result(eval, best, evaluations, gen, trace, meta)
	res.Duration = time.Since(start)
	return res, nil
}

// elites возвращает независимые копии лучших особей финальной популяции.
// Они служат семенами для цепочек дожигательного поиска.
func (s *Solver) elites(pop []timetable.Chromosome, scores []float64, idxs []int) []timetable.Chromosome {
	k := s.Cfg.Elite
	if k < 1 {
		k = 1
	}
	sort.Slice(idxs, func(i, j int) bool {
		return scores[idxs[i]] < scores[idxs[j]]
	})
	out := make([]timetable.Chromosome, k)
	for i := 0; i < k; i++ {
		out[i] = pop[idxs[i]].Clone()
	}
	return out
}
