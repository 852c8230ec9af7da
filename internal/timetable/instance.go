package timetable

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrIntegrity — признак нарушения целостности входных данных:
// ссылка на отсутствующую аудиторию, группу или преподавателя.
var ErrIntegrity = errors.New("нарушение целостности данных")

// Room — аудитория из каталога.
type Room struct {
	ID       string
	Capacity int
	Type     RoomType
}

// Group — учебная группа из каталога.
type Group struct {
	Name string
	Size int
}

// Teacher — преподаватель. Каталог преподавателей опционален:
// используется только сопоставление по идентификатору.
type Teacher struct {
	ID             string
	Name           string
	Specialization string
}

// Session — требование на одно занятие: что, кто и для кого.
// Размещение (день, время, аудитория) подбирает оптимизатор.
type Session struct {
	Name      string
	Type      SessionType
	TeacherID string
	// Groups — имена участвующих групп (обязательно хотя бы одна).
	Groups []string
	// RoomID — фиксированная аудитория; пустая строка — аудитория свободна.
	RoomID string
	// Duration — длительность в слотах (минимум 1).
	Duration int
}

// Instance — неизменяемое описание задачи: каталоги и список занятий.
// После успешной Validate экземпляр в ходе поиска не модифицируется.
type Instance struct {
	Rooms    []Room
	Groups   []Group
	Teachers []Teacher
	Sessions []Session

	// Размер сетки: дни недели и количество слотов в дне.
	Days        int
	SlotsPerDay int

	// SlotPenalties — штраф за начало занятия в слоте с данным индексом
	// времени; отсутствующий ключ означает штраф 0.
	SlotPenalties map[int]float64

	// RoomCompat — таблица совместимости; nil — DefaultRoomCompat().
	RoomCompat map[SessionType]map[RoomType]bool
}

// NewInstance возвращает экземпляр задачи с валидацией входных данных.
func NewInstance(rooms []Room, groups []Group, teachers []Teacher, sessions []Session, days, slotsPerDay int) (*Instance, error) {
	inst := &Instance{
		Rooms:       rooms,
		Groups:      groups,
		Teachers:    teachers,
		Sessions:    sessions,
		Days:        days,
		SlotsPerDay: slotsPerDay,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Compat возвращает действующую таблицу совместимости.
func (inst *Instance) Compat() map[SessionType]map[RoomType]bool {
	if inst.RoomCompat != nil {
		return inst.RoomCompat
	}
	return DefaultRoomCompat()
}

// RoomIndex возвращает индекс аудитории по идентификатору, либо -1.
func (inst *Instance) RoomIndex(id string) int {
	for i := range inst.Rooms {
		if inst.Rooms[i].ID == id {
			return i
		}
	}
	return -1
}

// GroupIndex возвращает индекс группы по имени, либо -1.
func (inst *Instance) GroupIndex(name string) int {
	for i := range inst.Groups {
		if inst.Groups[i].Name == name {
			return i
		}
	}
	return -1
}

// Validate проверяет сетку, каталоги и разрешимость всех ссылок занятий.
// Ошибки ссылок оборачивают ErrIntegrity.
func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Days <= 0 {
		return fmt.Errorf("количество дней должно быть > 0 (получено %d)", inst.Days)
	}
	if inst.SlotsPerDay <= 0 {
		return fmt.Errorf("количество слотов в дне должно быть > 0 (получено %d)", inst.SlotsPerDay)
	}
	if len(inst.Rooms) == 0 {
		return errors.New("каталог аудиторий пуст")
	}
	if len(inst.Sessions) == 0 {
		return errors.New("список занятий пуст")
	}

	seenRooms := make(map[string]bool, len(inst.Rooms))
	for i, r := range inst.Rooms {
		if r.ID == "" {
			return fmt.Errorf("аудитория №%d без идентификатора", i)
		}
		if seenRooms[r.ID] {
			return fmt.Errorf("дублирующийся идентификатор аудитории %q", r.ID)
		}
		seenRooms[r.ID] = true
		if r.Capacity <= 0 {
			return fmt.Errorf("вместимость аудитории %q должна быть > 0 (получено %d)", r.ID, r.Capacity)
		}
		if !validRoomType(r.Type) {
			return fmt.Errorf("неизвестный тип аудитории %q (%q)", r.Type, r.ID)
		}
	}

	seenGroups := make(map[string]bool, len(inst.Groups))
	for i, g := range inst.Groups {
		if g.Name == "" {
			return fmt.Errorf("группа №%d без имени", i)
		}
		if seenGroups[g.Name] {
			return fmt.Errorf("дублирующееся имя группы %q", g.Name)
		}
		seenGroups[g.Name] = true
		if g.Size <= 0 {
			return fmt.Errorf("размер группы %q должен быть > 0 (получено %d)", g.Name, g.Size)
		}
	}

	seenTeachers := make(map[string]bool, len(inst.Teachers))
	for i, t := range inst.Teachers {
		if t.ID == "" {
			return fmt.Errorf("преподаватель №%d без идентификатора", i)
		}
		if seenTeachers[t.ID] {
			return fmt.Errorf("дублирующийся идентификатор преподавателя %q", t.ID)
		}
		seenTeachers[t.ID] = true
	}

	for k, p := range inst.SlotPenalties {
		if k < 0 || k >= inst.SlotsPerDay {
			return fmt.Errorf("штраф задан для несуществующего слота %d", k)
		}
		if p < 0 {
			return fmt.Errorf("штраф слота %d должен быть >= 0 (получено %f)", k, p)
		}
	}

	for i, s := range inst.Sessions {
		if s.Name == "" {
			return fmt.Errorf("занятие №%d без названия", i)
		}
		if !validSessionType(s.Type) {
			return fmt.Errorf("неизвестный тип занятия %q (%q)", s.Type, s.Name)
		}
		if s.TeacherID == "" {
			return fmt.Errorf("занятие %q без преподавателя", s.Name)
		}
		if len(s.Groups) == 0 {
			return fmt.Errorf("занятие %q без групп", s.Name)
		}
		if s.Duration <= 0 {
			return fmt.Errorf("длительность занятия %q должна быть > 0 (получено %d)", s.Name, s.Duration)
		}
		if s.Duration > inst.SlotsPerDay {
			return fmt.Errorf("длительность занятия %q превышает день (%d > %d)", s.Name, s.Duration, inst.SlotsPerDay)
		}
		// Разрешимость ссылок: все идентификаторы должны присутствовать
		// в каталогах на момент загрузки.
		if s.RoomID != "" && !seenRooms[s.RoomID] {
			return fmt.Errorf("занятие %q ссылается на отсутствующую аудиторию %q: %w", s.Name, s.RoomID, ErrIntegrity)
		}
		for _, g := range s.Groups {
			if !seenGroups[g] {
				return fmt.Errorf("занятие %q ссылается на отсутствующую группу %q: %w", s.Name, g, ErrIntegrity)
			}
		}
		if len(inst.Teachers) > 0 && !seenTeachers[s.TeacherID] {
			return fmt.Errorf("занятие %q ссылается на отсутствующего преподавателя %q: %w", s.Name, s.TeacherID, ErrIntegrity)
		}
	}

	return nil
}

// RandomInstance генерирует случайный, заведомо разрешимый экземпляр задачи:
// количество занятий не превышает ёмкости сетки по аудиториям.
// Используется бенчмарком.
func RandomInstance(sessions, rooms, groups, teachers, days, slotsPerDay int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if sessions <= 0 || rooms <= 0 || groups <= 0 || teachers <= 0 || days <= 0 || slotsPerDay <= 0 {
		panic("invalid instance dimensions")
	}

	roomTypes := [...]RoomType{RoomAmphitheater, RoomClassroom, RoomLab}
	sessTypes := [...]SessionType{SessionLecture, SessionTutorial, SessionLab}
	// Совместимая аудитория для каждого типа занятия гарантированно есть.
	need := map[SessionType]RoomType{
		SessionLecture:  RoomAmphitheater,
		SessionTutorial: RoomClassroom,
		SessionLab:      RoomLab,
	}

	rs := make([]Room, rooms)
	for i := range rs {
		t := roomTypes[i%len(roomTypes)]
		rs[i] = Room{
			ID:       fmt.Sprintf("R%02d", i+1),
			Capacity: 30 + rng.Intn(120),
			Type:     t,
		}
	}

	gs := make([]Group, groups)
	for i := range gs {
		gs[i] = Group{
			Name: fmt.Sprintf("G%02d", i+1),
			Size: 15 + rng.Intn(15),
		}
	}

	ts := make([]Teacher, teachers)
	for i := range ts {
		ts[i] = Teacher{ID: fmt.Sprintf("T%02d", i+1), Name: fmt.Sprintf("Teacher %02d", i+1)}
	}

	ss := make([]Session, sessions)
	for i := range ss {
		st := sessTypes[rng.Intn(len(sessTypes))]
		// Если совместимых аудиторий мало, тип приводится к лекции.
		found := false
		for _, r := range rs {
			if r.Type == need[st] {
				found = true
				break
			}
		}
		if !found {
			st = SessionLecture
		}
		ss[i] = Session{
			Name:      fmt.Sprintf("S%03d", i+1),
			Type:      st,
			TeacherID: ts[rng.Intn(teachers)].ID,
			Groups:    []string{gs[rng.Intn(groups)].Name},
			Duration:  1,
		}
	}

	penalties := map[int]float64{}
	if slotsPerDay > 1 {
		// Последний слот дня менее желателен.
		penalties[slotsPerDay-1] = 5
	}

	inst := &Instance{
		Rooms:         rs,
		Groups:        gs,
		Teachers:      ts,
		Sessions:      ss,
		Days:          days,
		SlotsPerDay:   slotsPerDay,
		SlotPenalties: penalties,
	}
	if err := inst.Validate(); err != nil {
		panic(err)
	}
	return inst
}
