package ga

import (
	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

func (s *Solver) result(eval *timetable.Evaluator, best timetable.Chromosome, evals, gens int, trace opt.Trace, meta map[string]any) opt.Result {
	res := opt.Result{
		Best:        best.Clone(),
		Evaluations: evals,
		Iterations:  gens,
		Trace:       trace,
		Meta:        meta,
	}
	res.Finalize(eval)
	return res
}
