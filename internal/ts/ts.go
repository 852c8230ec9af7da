package ts

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

// Solver - структура реализации алгоритма табу-поиска
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// move — один ход: либо замена размещения занятия i новым значением,
// либо обмен размещениями занятий i и j.
type move struct {
	i, j int
	g    timetable.Gene
	swap bool
}

// Solve запускает табу-поиск от случайного решения.
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

// Refine выполняет табу-поиск вокруг переданного решения. Запрещается
// откат недавних ходов; запрет снимается критерием аспирации, если ход
// улучшает глобально лучшее решение.
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

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerSession * n
	}

	// Текущее и кандидатное решения
	curr := seed.Clone()
	cand := make(timetable.Chromosome, n)

	currFit := eval.Fitness(curr)
	evals := 1

	// Глобально лучшее решение
	best := curr.Clone()
	bestFit := currFit

	var trace opt.Trace
	trace.Append(bestFit, currFit)

	// Табу-список - кольцевой буфер с мапой
	// Ёмкость выбирается с запасом относительно длины табу
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	iter := 0
	for iter = 0; iter < maxIter; iter++ {
		if bestFit == 0 {
			break
		}

		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			res := s.result(eval, best, evals, iter, trace, map[string]any{"stopped": "context"})
			res.Duration = time.Since(start)
			return res, err
		}

		// Лучший допустимый ход
		var bestMove move
		bestMoveFit := math.Inf(1)
		hasBest := false

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		var fallback move
		fallbackFit := math.Inf(1)
		hasFallback := false

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < s.Cfg.NeighborsPerIter; k++ {
			mv, ok := s.randomMove(curr, smp, n)
			if !ok {
				continue
			}

			copy(cand, curr)
			applyMove(cand, mv)

			fit := eval.Fitness(cand)
			evals++

			if fit < fallbackFit {
				fallbackFit = fit
				fallback = mv
				hasFallback = true
			}

			isTabu := tabu.IsTabu(s.moveKey(curr, mv), iter)
			aspiration := fit < bestFit // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}

			if fit < bestMoveFit {
				bestMoveFit = fit
				bestMove = mv
				hasBest = true
			}
		}

		// Выбор хода: сначала допустимый лучший, затем запасной
		chosen := bestMove
		chosenFit := bestMoveFit
		if !hasBest {
			chosen = fallback
			chosenFit = fallbackFit
			if !hasFallback {
				break
			}
		}

		// Обратный ход табуируется до истечения срока
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		tabu.Add(s.reverseKey(curr, chosen), iter+tenure)

		applyMove(curr, chosen)
		currFit = chosenFit

		// Обновление глобально лучшего решения
		if currFit < bestFit {
			bestFit = currFit
			copy(best, curr)
		}

		trace.Append(bestFit, currFit)
	}

	res := s.result(eval, best, evals, iter, trace, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
	})
	res.Duration = time.Since(start)
	return res, nil
}

// randomMove генерирует случайный ход выбранной окрестности.
func (s *Solver) randomMove(curr timetable.Chromosome, smp *timetable.Sampler, n int) (move, bool) {
	if s.Cfg.Neighborhood == NeighborhoodSwap && n > 1 {
		i := s.Rng.Intn(n)
		j := s.Rng.Intn(n - 1)
		if j >= i {
			j++
		}
		if i > j {
			i, j = j, i
		}
		if curr[i] == curr[j] {
			return move{}, false
		}
		return move{i: i, j: j, swap: true}, true
	}

	i := s.Rng.Intn(n)
	g := smp.Gene(i, s.Rng)
	if g == curr[i] {
		return move{}, false
	}
	return move{i: i, g: g}, true
}

func applyMove(chrom timetable.Chromosome, mv move) {
	if mv.swap {
		chrom[mv.i], chrom[mv.j] = chrom[mv.j], chrom[mv.i]
		return
	}
	chrom[mv.i] = mv.g
}

// moveKey формирует уникальный ключ хода относительно текущего решения.
func (s *Solver) moveKey(curr timetable.Chromosome, mv move) uint64 {
	if mv.swap {
		return swapKey(mv.i, mv.j)
	}
	return geneKey(mv.i, mv.g)
}

// reverseKey формирует ключ обратного хода: для замены — возврат старого
// размещения, для обмена — тот же обмен.
func (s *Solver) reverseKey(curr timetable.Chromosome, mv move) uint64 {
	if mv.swap {
		return swapKey(mv.i, mv.j)
	}
	return geneKey(mv.i, curr[mv.i])
}

func geneKey(i int, g timetable.Gene) uint64 {
	return (uint64(uint16(i)) << 48) |
		(uint64(uint16(g.Day)) << 32) |
		(uint64(uint16(g.Start)) << 16) |
		uint64(uint16(g.Room))
}

func swapKey(i, j int) uint64 {
	return (uint64(1) << 63) | (uint64(uint16(i)) << 16) | uint64(uint16(j))
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

// tabuList — структура табу-списка.
// Реализована как кольцевой буфер фиксированного размера
// с map для быстрой проверки табуированности.
type tabuList struct {
	m   map[uint64]int // ключ → итерация истечения табу
	key []uint64       // кольцевой буфер ключей
	exp []int          // соответствующие сроки истечения
	i   int            // текущая позиция в кольце
}

// newTabuList создаёт табу-список заданной ёмкости.
func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
		i:   0,
	}
}

// IsTabu проверяет, является ли ход табуированным на текущей итерации.
func (t *tabuList) IsTabu(k uint64, iter int) bool {
	if exp, ok := t.m[k]; ok && exp > iter {
		return true
	}
	return false
}

// Add добавляет новый табу-ход с указанием итерации истечения.
func (t *tabuList) Add(k uint64, expiry int) {
	// Удаление старого элемента из кольцевого буфера
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

// max возвращает максимум из двух целых чисел.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
