package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"timeTable/internal/bench"
	"timeTable/internal/ga"
	"timeTable/internal/hybrid"
	"timeTable/internal/logger"
	"timeTable/internal/opt"
	"timeTable/internal/sa"
	"timeTable/internal/timetable"
	"timeTable/internal/ts"
)

var (
	benchOut          string
	benchCases        string
	benchAlgos        string
	benchRuns         int
	benchBaseSeed     int64
	benchInstanceSeed int64
	benchPerRunTO     time.Duration
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Сравнить алгоритмы на сгенерированных экземплярах задачи",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchOut, "out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	benchCmd.Flags().StringVar(&benchCases, "cases", "20x6,40x10,80x15", "конфигурации: количество занятий Х количество аудиторий (через запятую)")
	benchCmd.Flags().StringVar(&benchAlgos, "algos", "GA,SA,HYBRID", "список алгоритмов: GA, SA, TS, HYBRID (через запятую)")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 10, "количество запусков каждого алгоритма (с разными сидами)")
	benchCmd.Flags().Int64Var(&benchBaseSeed, "seed", 1000, "базовый сид для запусков алгоритмов")
	benchCmd.Flags().Int64Var(&benchInstanceSeed, "instance_seed", 777, "базовый сид для генерации экземпляров задачи (фиксирован для конфигурации)")
	benchCmd.Flags().DurationVar(&benchPerRunTO, "per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	rootCmd.AddCommand(benchCmd)
}

// hybridAdapter приводит гибридный солвер к общему интерфейсу Optimizer.
// Оценщик гибрид строит сам из собственных весов.
type hybridAdapter struct {
	cfg hybrid.Config
}

func (a hybridAdapter) Solve(ctx context.Context, inst *timetable.Instance, _ *timetable.Evaluator) (opt.Result, error) {
	s, err := hybrid.New(a.cfg, logger.Nop{})
	if err != nil {
		return opt.Result{}, err
	}
	return s.Solve(ctx, inst)
}

// Фабрики

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newHybridFactory(cfg hybrid.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		c := cfg
		c.Seed = seed
		return hybridAdapter{cfg: c}
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Solver.Validate(); err != nil {
		return fmt.Errorf("конфигурация солвера: %w", err)
	}

	cases, err := parseCases(benchCases, benchInstanceSeed)
	if err != nil {
		return err
	}

	available := map[string]bench.Algorithm{
		"GA":     {Name: "GA", Factory: newGAFactory(cfg.Solver.GA)},
		"SA":     {Name: "SA", Factory: newSAFactory(cfg.Solver.SA)},
		"TS":     {Name: "TS", Factory: newTSFactory(ts.DefaultConfig())},
		"HYBRID": {Name: "HYBRID", Factory: newHybridFactory(cfg.Solver)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(benchAlgos) {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			return fmt.Errorf("алгоритм не предоставлен в программе %q; доступные: %v", a, keys(available))
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          benchRuns,
		BaseSeed:      benchBaseSeed,
		PerRunTimeout: benchPerRunTO,
		Weights:       cfg.Solver.Weights,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			fmt.Printf("Запущен алгоритм %s; %d занятий %d аудиторий (общее кол-во запусков=%d)...\n", a.Name, c.Sessions, c.Rooms, runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				return err
			}
			records = append(records, rec)

			fmt.Printf("  Значение целевой функции: лучшее=%.2f среднее=%.2f стандартное отклонение=%.2f | допустимых=%d/%d | Время: среднее=%.2fms\n",
				rec.FitnessBest, rec.FitnessMean, rec.FitnessStd,
				rec.Feasible, rec.Runs, rec.TimeMeanMs,
			)
		}
	}

	if err := bench.WriteCSV(benchOut, records); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}
	fmt.Println("Saved:", benchOut)
	return nil
}

// helpers

func parseCases(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		sr := strings.Split(p, "x")
		if len(sr) != 2 {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 40x10", p)
		}
		sessions, err := atoiStrict(sr[0])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества занятий: %w", p, err)
		}
		rooms, err := atoiStrict(sr[1])
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества аудиторий: %w", p, err)
		}
		if sessions <= 0 || rooms <= 0 {
			return nil, fmt.Errorf("пара %q: количество занятий и аудиторий должно быть > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(sessions)*100 + int64(rooms)

		// Группы и преподаватели выводятся из размеров пары.
		cases = append(cases, bench.Case{
			Sessions:     sessions,
			Rooms:        rooms,
			Groups:       max(2, rooms),
			Teachers:     max(2, sessions/6),
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
