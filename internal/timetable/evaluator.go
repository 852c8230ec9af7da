package timetable

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Weights — веса слагаемых целевой функции.
// Hard подбирается на порядки больше достижимой мягкой стоимости,
// чтобы допустимость всегда предпочиталась качеству.
type Weights struct {
	Hard        float64 `json:"hard"`
	Gaps        float64 `json:"gaps"`
	TeacherGaps float64 `json:"teacher_gaps"`
	Balance     float64 `json:"balance"`
	SlotPenalty float64 `json:"slot_penalty"`
}

// DefaultWeights — веса по умолчанию. Разрыв в расписании преподавателей
// по умолчанию не штрафуется (TeacherGaps = 0).
func DefaultWeights() Weights {
	return Weights{
		Hard:        1_000_000,
		Gaps:        1,
		TeacherGaps: 0,
		Balance:     1,
		SlotPenalty: 1,
	}
}

func (w Weights) Validate() error {
	if w.Hard <= 0 {
		return fmt.Errorf("вес жёстких ограничений должен быть > 0 (получено %f)", w.Hard)
	}
	if w.Gaps < 0 || w.TeacherGaps < 0 || w.Balance < 0 || w.SlotPenalty < 0 {
		return fmt.Errorf("веса мягких ограничений должны быть >= 0")
	}
	return nil
}

// Breakdown — разбивка стоимости решения по отдельным ограничениям.
type Breakdown struct {
	TeacherConflicts int
	GroupConflicts   int
	RoomConflicts    int
	Capacity         int
	RoomType         int

	Gaps        int
	TeacherGaps int
	Balance     float64
	SlotPenalty float64
}

// Hard возвращает суммарное количество нарушений жёстких ограничений.
func (b Breakdown) Hard() int {
	return b.TeacherConflicts + b.GroupConflicts + b.RoomConflicts + b.Capacity + b.RoomType
}

// Evaluator — оценщик значения целевой функции задачи составления
// расписания. После создания только читает свои поля, поэтому безопасен
// при параллельных вызовах на независимых хромосомах.
type Evaluator struct {
	w Weights

	days  int
	slots int

	nRooms    int
	nGroups   int
	nTeachers int

	roomCap  []int
	roomOK   [][]bool // roomOK[s][r] — совместимость занятия s и аудитории r
	sizeOf   []int    // суммарный размер групп занятия
	durOf    []int
	teachOf  []int   // индекс преподавателя занятия (по порядку появления)
	groupsOf [][]int // индексы групп занятия
	penalty  []float64
}

// NewEvaluator подготавливает оценщик: разрешает все ссылки занятий
// в плотные индексы один раз, вне горячего цикла поиска.
func NewEvaluator(inst *Instance, w Weights) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	compat := inst.Compat()

	e := &Evaluator{
		w:        w,
		days:     inst.Days,
		slots:    inst.SlotsPerDay,
		nRooms:   len(inst.Rooms),
		nGroups:  len(inst.Groups),
		roomCap:  make([]int, len(inst.Rooms)),
		roomOK:   make([][]bool, len(inst.Sessions)),
		sizeOf:   make([]int, len(inst.Sessions)),
		durOf:    make([]int, len(inst.Sessions)),
		teachOf:  make([]int, len(inst.Sessions)),
		groupsOf: make([][]int, len(inst.Sessions)),
		penalty:  make([]float64, inst.SlotsPerDay),
	}

	for i, r := range inst.Rooms {
		e.roomCap[i] = r.Capacity
	}
	for k, p := range inst.SlotPenalties {
		e.penalty[k] = p
	}

	groupSize := make([]int, len(inst.Groups))
	groupIdx := make(map[string]int, len(inst.Groups))
	for i, g := range inst.Groups {
		groupSize[i] = g.Size
		groupIdx[g.Name] = i
	}

	teacherIdx := map[string]int{}
	for i, s := range inst.Sessions {
		ti, ok := teacherIdx[s.TeacherID]
		if !ok {
			ti = len(teacherIdx)
			teacherIdx[s.TeacherID] = ti
		}
		e.teachOf[i] = ti
		e.durOf[i] = s.Duration

		gs := make([]int, len(s.Groups))
		for j, name := range s.Groups {
			gi, ok := groupIdx[name]
			if !ok {
				return nil, fmt.Errorf("занятие %q ссылается на отсутствующую группу %q: %w", s.Name, name, ErrIntegrity)
			}
			gs[j] = gi
			e.sizeOf[i] += groupSize[gi]
		}
		e.groupsOf[i] = gs

		ok2 := make([]bool, len(inst.Rooms))
		for r, room := range inst.Rooms {
			ok2[r] = compat[s.Type][room.Type]
		}
		e.roomOK[i] = ok2
	}
	e.nTeachers = len(teacherIdx)

	return e, nil
}

// Evaluate возвращает количество нарушений жёстких ограничений и взвешенную
// мягкую стоимость хромосомы. Детерминирована и не имеет побочных эффектов.
func (e *Evaluator) Evaluate(chrom Chromosome) (int, float64) {
	b := e.Breakdown(chrom)
	return b.Hard(), e.soft(b)
}

// Fitness возвращает скалярное значение целевой функции (меньше — лучше).
func (e *Evaluator) Fitness(chrom Chromosome) float64 {
	hard, soft := e.Evaluate(chrom)
	return e.w.Hard*float64(hard) + soft
}

func (e *Evaluator) soft(b Breakdown) float64 {
	return e.w.Gaps*float64(b.Gaps) +
		e.w.TeacherGaps*float64(b.TeacherGaps) +
		e.w.Balance*b.Balance +
		e.w.SlotPenalty*b.SlotPenalty
}

// Breakdown вычисляет разбивку стоимости по отдельным ограничениям.
// Все буферы локальны вызову: метод можно звать из нескольких горутин.
func (e *Evaluator) Breakdown(chrom Chromosome) Breakdown {
	var b Breakdown

	grid := e.days * e.slots
	teacherOcc := make([]int, e.nTeachers*grid)
	groupOcc := make([]int, e.nGroups*grid)
	roomOcc := make([]int, e.nRooms*grid)
	loads := make([]float64, e.nTeachers)

	for i, g := range chrom {
		day := g.Day
		if day < 0 || day >= e.days {
			day = ((day % e.days) + e.days) % e.days
		}
		lo := g.Start
		if lo < 0 {
			lo = 0
		}
		hi := lo + e.durOf[i]
		if hi > e.slots {
			hi = e.slots
		}

		// Занятость считается по каждому занятому слоту: занятия с
		// длительностью больше одного слота конфликтуют и при частичном
		// пересечении.
		for t := lo; t < hi; t++ {
			cell := day*e.slots + t
			teacherOcc[e.teachOf[i]*grid+cell]++
			for _, gi := range e.groupsOf[i] {
				groupOcc[gi*grid+cell]++
			}
			roomOcc[g.Room*grid+cell]++
		}

		// H4: перегрузка аудитории суммируется по величине превышения.
		if over := e.sizeOf[i] - e.roomCap[g.Room]; over > 0 {
			b.Capacity += over
		}
		// H5: несовместимость типа занятия и типа аудитории.
		if !e.roomOK[i][g.Room] {
			b.RoomType++
		}

		loads[e.teachOf[i]] += float64(e.durOf[i])
		if lo < e.slots {
			b.SlotPenalty += e.penalty[lo]
		}
	}

	// H1–H3: на каждую ячейку (сущность, день, слот) допустимо одно занятие;
	// каждое лишнее — нарушение.
	b.TeacherConflicts = countConflicts(teacherOcc)
	b.GroupConflicts = countConflicts(groupOcc)
	b.RoomConflicts = countConflicts(roomOcc)

	// S1: простои групп между первым и последним занятием дня.
	b.Gaps = countGaps(groupOcc, e.nGroups, e.days, e.slots)
	if e.w.TeacherGaps > 0 {
		b.TeacherGaps = countGaps(teacherOcc, e.nTeachers, e.days, e.slots)
	}

	// S2: дисперсия суммарной нагрузки преподавателей.
	if e.nTeachers > 1 {
		b.Balance = stat.PopVariance(loads, nil)
	}

	return b
}

func countConflicts(occ []int) int {
	total := 0
	for _, c := range occ {
		if c > 1 {
			total += c - 1
		}
	}
	return total
}

// countGaps суммирует свободные слоты между занятыми в пределах одного дня.
func countGaps(occ []int, entities, days, slots int) int {
	gaps := 0
	for ent := 0; ent < entities; ent++ {
		for d := 0; d < days; d++ {
			row := occ[ent*days*slots+d*slots : ent*days*slots+(d+1)*slots]
			first, last := -1, -1
			for t, c := range row {
				if c > 0 {
					if first < 0 {
						first = t
					}
					last = t
				}
			}
			for t := first + 1; t < last; t++ {
				if row[t] == 0 {
					gaps++
				}
			}
		}
	}
	return gaps
}
