package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"timeTable/internal/hybrid"
	"timeTable/internal/loader"
	"timeTable/internal/logger"
)

var (
	solveDataDir  string
	solveDays     int
	solveSlots    int
	solveSeed     int64
	solveOut      string
	solveTraceOut string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Составить расписание по CSV-каталогам",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveDataDir, "data", "d", "data", "каталог с rooms.csv, groups.csv, sessions.csv (опционально teachers.csv, slot_penalties.csv)")
	solveCmd.Flags().IntVar(&solveDays, "days", 5, "количество учебных дней в неделе")
	solveCmd.Flags().IntVar(&solveSlots, "slots", 8, "количество слотов в дне")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 0, "сид генератора случайных чисел (0 — недетерминированный)")
	solveCmd.Flags().StringVar(&solveOut, "out", "artifacts/schedule.csv", "путь к итоговому расписанию")
	solveCmd.Flags().StringVar(&solveTraceOut, "trace", "artifacts/trace.csv", "путь к трассе сходимости")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if solveSeed != 0 {
		cfg.Solver.Seed = solveSeed
	}

	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("solve")
	runID := uuid.NewString()

	inst, err := loader.LoadInstance(solveDataDir, solveDays, solveSlots)
	if err != nil {
		return fmt.Errorf("load instance: %w", err)
	}
	logg.Infow("задача загружена", map[string]any{
		"run_id":   runID,
		"rooms":    len(inst.Rooms),
		"groups":   len(inst.Groups),
		"teachers": len(inst.Teachers),
		"sessions": len(inst.Sessions),
	})

	solver, err := hybrid.New(cfg.Solver, logg)
	if err != nil {
		return err
	}
	res, err := solver.Solve(ctx, inst)
	if err != nil {
		return err
	}

	logg.Infow("запуск завершён", map[string]any{
		"run_id":      runID,
		"fitness":     res.Fitness,
		"hard":        res.Hard,
		"soft":        res.Soft,
		"feasible":    res.Feasible,
		"evaluations": res.Evaluations,
		"duration":    res.Duration.String(),
	})

	if err := loader.WriteSchedule(solveOut, res.Schedule); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	if err := loader.WriteTrace(solveTraceOut, res.Trace); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	fmt.Println("Saved:", solveOut)
	fmt.Println("Saved:", solveTraceOut)
	return nil
}
