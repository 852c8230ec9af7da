package ga

import (
	"math/rand"
	"sync"

	"timeTable/internal/timetable"
)

// tournamentSelect реализует турнирный отбор.
// Возвращается индекс особи с наилучшим значением fitness (минимальное значение целевой функции).
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand) int {
	best := rng.Intn(len(scores))
	bestScore := scores[best]
	for i := 1; i < tournamentSize; i++ {
		cand := rng.Intn(len(scores))
		if scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// crossoverTwoPoint реализует двухточечный позиционный кроссовер.
// Гены независимы по локусам, поэтому ремонт потомков не требуется.
func crossoverTwoPoint(p1, p2, c1, c2 timetable.Chromosome, rng *rand.Rand) {
	n := len(p1)

	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	copy(c1, p1[:a])
	copy(c1[a:b], p2[a:b])
	copy(c1[b:], p1[b:])

	copy(c2, p2[:a])
	copy(c2[a:b], p1[a:b])
	copy(c2[b:], p2[b:])
}

// mutate пересэмплирует каждый ген с вероятностью rate тем же смещённым
// генератором, что и при инициализации популяции.
func mutate(chrom timetable.Chromosome, rate float64, smp *timetable.Sampler, rng *rand.Rand) {
	for i := range chrom {
		if rng.Float64() < rate {
			smp.Resample(chrom, i, rng)
		}
	}
}

// evalRange оценивает особи pop[from:] и пишет значения в scores[from:].
// При workers > 1 оценка выполняется пулом горутин: оценщик чистый,
// особи независимы, поэтому синхронизация результатов не нужна.
func evalRange(eval *timetable.Evaluator, pop []timetable.Chromosome, scores []float64, from, workers int) {
	if workers <= 1 || len(pop)-from < 2 {
		for i := from; i < len(pop); i++ {
			scores[i] = eval.Fitness(pop[i])
		}
		return
	}

	var wg sync.WaitGroup
	idx := make(chan int, len(pop)-from)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				scores[i] = eval.Fitness(pop[i])
			}
		}()
	}
	for i := from; i < len(pop); i++ {
		idx <- i
	}
	close(idx)
	wg.Wait()
}
