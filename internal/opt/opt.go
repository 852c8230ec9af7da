package opt

import (
	"context"
	"time"

	"timeTable/internal/timetable"
)

// Optimizer — общий интерфейс алгоритмов поиска расписания.
type Optimizer interface {
	Solve(ctx context.Context, inst *timetable.Instance, eval *timetable.Evaluator) (Result, error)
}

// TracePoint — одна точка трассы сходимости: лучшее значение целевой
// функции за всё время и текущее значение на данном шаге.
type TracePoint struct {
	Step    int
	Best    float64
	Current float64
}

// Trace — трасса сходимости по поколениям/итерациям.
type Trace []TracePoint

// Append добавляет точку с очередным номером шага.
func (t *Trace) Append(best, current float64) {
	*t = append(*t, TracePoint{Step: len(*t), Best: best, Current: current})
}

// Result — итог работы алгоритма.
type Result struct {
	// Best — лучшая найденная хромосома.
	Best timetable.Chromosome
	// Schedule — декодированное расписание лучшей хромосомы;
	// заполняется оркестратором.
	Schedule timetable.Schedule
	// Fitness — её скалярное значение целевой функции.
	Fitness float64
	// Hard и Soft — составляющие стоимости лучшей хромосомы.
	Hard int
	Soft float64
	// Feasible — признак отсутствия нарушений жёстких ограничений.
	// Недопустимый итог — не ошибка: возвращается лучшее из найденного.
	Feasible bool

	Evaluations int
	Iterations  int
	Duration    time.Duration
	Trace       Trace
	Meta        map[string]any
}

// Finalize заполняет производные поля результата по лучшей хромосоме.
func (r *Result) Finalize(eval *timetable.Evaluator) {
	r.Hard, r.Soft = eval.Evaluate(r.Best)
	r.Fitness = eval.Fitness(r.Best)
	r.Feasible = r.Hard == 0
}
