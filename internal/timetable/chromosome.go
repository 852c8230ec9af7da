package timetable

import (
	"fmt"
	"math/rand"
)

// Gene — позиционное кодирование одного размещения: день, стартовый слот
// и индекс аудитории в Instance.Rooms.
type Gene struct {
	Day   int
	Start int
	Room  int
}

// Chromosome — хромосома: по одному гену на занятие, порядок генов
// фиксирован порядком Instance.Sessions.
type Chromosome []Gene

// Clone возвращает независимую копию хромосомы.
func (c Chromosome) Clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// Encode переводит расписание в хромосому. Порядок размещений должен
// совпадать с порядком занятий экземпляра.
func Encode(inst *Instance, sched Schedule) (Chromosome, error) {
	if len(sched) != len(inst.Sessions) {
		return nil, fmt.Errorf("длина расписания должна быть %d (получено %d)", len(inst.Sessions), len(sched))
	}
	chrom := make(Chromosome, len(sched))
	for i, a := range sched {
		if a.Room == nil {
			return nil, fmt.Errorf("размещение №%d без аудитории", i)
		}
		ri := inst.RoomIndex(a.Room.ID)
		if ri < 0 {
			return nil, fmt.Errorf("размещение №%d: неизвестная аудитория %q", i, a.Room.ID)
		}
		chrom[i] = Gene{Day: int(a.Day), Start: a.Start, Room: ri}
	}
	return chrom, nil
}

// Decode переводит хромосому в расписание. Обратная операция к Encode.
func Decode(inst *Instance, chrom Chromosome) (Schedule, error) {
	if len(chrom) != len(inst.Sessions) {
		return nil, fmt.Errorf("длина хромосомы должна быть %d (получено %d)", len(inst.Sessions), len(chrom))
	}
	sched := make(Schedule, len(chrom))
	for i, g := range chrom {
		if g.Room < 0 || g.Room >= len(inst.Rooms) {
			return nil, fmt.Errorf("ген №%d: индекс аудитории %d вне диапазона [0,%d)", i, g.Room, len(inst.Rooms))
		}
		sess := &inst.Sessions[i]
		sched[i] = Assignment{
			Session:  sess,
			Day:      Day(g.Day),
			Start:    g.Start,
			Duration: sess.Duration,
			Room:     &inst.Rooms[g.Room],
		}
	}
	return sched, nil
}

// Sampler — генератор случайных генов с учётом требований занятий:
// фиксированная аудитория сохраняется, свободная выбирается из аудиторий
// совместимого типа, если такие есть, иначе из всех. Используется и при
// инициализации популяции, и при мутации, и при построении соседа в SA.
type Sampler struct {
	inst *Instance
	// roomsOf[i] — допустимые индексы аудиторий для занятия i.
	roomsOf [][]int
	// maxStart[i] — количество допустимых стартовых слотов занятия i.
	maxStart []int
}

// NewSampler подготавливает генератор для данного экземпляра задачи.
func NewSampler(inst *Instance) *Sampler {
	compat := inst.Compat()

	all := make([]int, len(inst.Rooms))
	for i := range all {
		all[i] = i
	}

	byType := map[SessionType][]int{}
	for _, st := range []SessionType{SessionLecture, SessionTutorial, SessionLab} {
		var idx []int
		for i, r := range inst.Rooms {
			if compat[st][r.Type] {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			idx = all
		}
		byType[st] = idx
	}

	s := &Sampler{
		inst:     inst,
		roomsOf:  make([][]int, len(inst.Sessions)),
		maxStart: make([]int, len(inst.Sessions)),
	}
	for i, sess := range inst.Sessions {
		if sess.RoomID != "" {
			s.roomsOf[i] = []int{inst.RoomIndex(sess.RoomID)}
		} else {
			s.roomsOf[i] = byType[sess.Type]
		}
		s.maxStart[i] = inst.SlotsPerDay - sess.Duration + 1
	}
	return s
}

// Gene возвращает случайный ген для занятия с индексом i.
func (s *Sampler) Gene(i int, rng *rand.Rand) Gene {
	rooms := s.roomsOf[i]
	return Gene{
		Day:   rng.Intn(s.inst.Days),
		Start: rng.Intn(s.maxStart[i]),
		Room:  rooms[rng.Intn(len(rooms))],
	}
}

// Chromosome возвращает полностью случайную хромосому.
func (s *Sampler) Chromosome(rng *rand.Rand) Chromosome {
	chrom := make(Chromosome, len(s.inst.Sessions))
	for i := range chrom {
		chrom[i] = s.Gene(i, rng)
	}
	return chrom
}

// Resample заменяет ген с индексом i новым случайным значением.
func (s *Sampler) Resample(chrom Chromosome, i int, rng *rand.Rand) {
	chrom[i] = s.Gene(i, rng)
}
