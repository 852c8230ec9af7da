package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"timeTable/internal/timetable"
)

// LoadInstance читает каталоги из CSV-файлов каталога dir и собирает
// валидированный экземпляр задачи. Обязательны rooms.csv, groups.csv и
// sessions.csv; teachers.csv и slot_penalties.csv опциональны.
func LoadInstance(dir string, days, slotsPerDay int) (*timetable.Instance, error) {
	rooms, err := loadRooms(filepath.Join(dir, "rooms.csv"))
	if err != nil {
		return nil, err
	}
	groups, err := loadGroups(filepath.Join(dir, "groups.csv"))
	if err != nil {
		return nil, err
	}
	teachers, err := loadTeachers(filepath.Join(dir, "teachers.csv"))
	if err != nil {
		return nil, err
	}
	sessions, err := loadSessions(filepath.Join(dir, "sessions.csv"))
	if err != nil {
		return nil, err
	}
	penalties, err := loadPenalties(filepath.Join(dir, "slot_penalties.csv"))
	if err != nil {
		return nil, err
	}

	inst := &timetable.Instance{
		Rooms:         rooms,
		Groups:        groups,
		Teachers:      teachers,
		Sessions:      sessions,
		Days:          days,
		SlotsPerDay:   slotsPerDay,
		SlotPenalties: penalties,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// table — разобранный CSV-файл: индексы колонок по заголовку и строки.
type table struct {
	path string
	cols map[string]int
	rows [][]string
}

func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: файл пуст", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: отсутствует колонка %q", path, name)
		}
	}
	return &table{path: path, cols: cols, rows: records[1:]}, nil
}

func (t *table) field(row []string, name string) string {
	i, ok := t.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) intField(row []string, name string) (int, error) {
	v, err := strconv.Atoi(t.field(row, name))
	if err != nil {
		return 0, fmt.Errorf("%s: колонка %q: %w", t.path, name, err)
	}
	return v, nil
}

func loadRooms(path string) ([]timetable.Room, error) {
	t, err := readTable(path, "room_id", "capacity", "type")
	if err != nil {
		return nil, err
	}
	rooms := make([]timetable.Room, 0, len(t.rows))
	for _, row := range t.rows {
		cap, err := t.intField(row, "capacity")
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, timetable.Room{
			ID:       t.field(row, "room_id"),
			Capacity: cap,
			Type:     timetable.RoomType(strings.ToLower(t.field(row, "type"))),
		})
	}
	return rooms, nil
}

func loadGroups(path string) ([]timetable.Group, error) {
	t, err := readTable(path, "group_name", "size")
	if err != nil {
		return nil, err
	}
	groups := make([]timetable.Group, 0, len(t.rows))
	for _, row := range t.rows {
		size, err := t.intField(row, "size")
		if err != nil {
			return nil, err
		}
		groups = append(groups, timetable.Group{
			Name: t.field(row, "group_name"),
			Size: size,
		})
	}
	return groups, nil
}

// loadTeachers читает опциональный каталог преподавателей;
// отсутствие файла не является ошибкой.
func loadTeachers(path string) ([]timetable.Teacher, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	t, err := readTable(path, "teacher_id")
	if err != nil {
		return nil, err
	}
	teachers := make([]timetable.Teacher, 0, len(t.rows))
	for _, row := range t.rows {
		teachers = append(teachers, timetable.Teacher{
			ID:             t.field(row, "teacher_id"),
			Name:           t.field(row, "name"),
			Specialization: t.field(row, "specialization"),
		})
	}
	return teachers, nil
}

func loadSessions(path string) ([]timetable.Session, error) {
	t, err := readTable(path, "session_name", "session_type", "teacher_id", "groups")
	if err != nil {
		return nil, err
	}
	sessions := make([]timetable.Session, 0, len(t.rows))
	for _, row := range t.rows {
		dur := 1
		if t.field(row, "duration") != "" {
			dur, err = t.intField(row, "duration")
			if err != nil {
				return nil, err
			}
		}
		var groups []string
		for _, g := range strings.Split(t.field(row, "groups"), ";") {
			g = strings.TrimSpace(g)
			if g != "" {
				groups = append(groups, g)
			}
		}
		sessions = append(sessions, timetable.Session{
			Name:      t.field(row, "session_name"),
			Type:      timetable.SessionType(strings.ToLower(t.field(row, "session_type"))),
			TeacherID: t.field(row, "teacher_id"),
			Groups:    groups,
			RoomID:    t.field(row, "room_id"),
			Duration:  dur,
		})
	}
	return sessions, nil
}

// loadPenalties читает опциональную таблицу штрафов слотов;
// отсутствующий слот означает штраф 0.
func loadPenalties(path string) (map[int]float64, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	t, err := readTable(path, "slot", "penalty")
	if err != nil {
		return nil, err
	}
	penalties := make(map[int]float64, len(t.rows))
	for _, row := range t.rows {
		slot, err := t.intField(row, "slot")
		if err != nil {
			return nil, err
		}
		p, err := strconv.ParseFloat(t.field(row, "penalty"), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: колонка %q: %w", t.path, "penalty", err)
		}
		penalties[slot] = p
	}
	return penalties, nil
}
