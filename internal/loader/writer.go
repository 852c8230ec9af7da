package loader

import (
	"encoding/csv"
	"os"
	"strings"

	"timeTable/internal/opt"
	"timeTable/internal/timetable"
)

// WriteSchedule сохраняет итоговое расписание в CSV.
func WriteSchedule(path string, sched timetable.Schedule) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"session", "type", "teacher", "groups",
		"day", "start", "duration", "room",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, a := range sched {
		row := []string{
			a.Session.Name,
			string(a.Session.Type),
			a.Session.TeacherID,
			strings.Join(a.Session.Groups, ";"),

			a.Day.String(),
			itoa(a.Start),
			itoa(a.Duration),
			a.Room.ID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteTrace сохраняет трассу сходимости в CSV для внешней визуализации.
func WriteTrace(path string, trace opt.Trace) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "best", "current"}); err != nil {
		return err
	}
	for _, p := range trace {
		row := []string{itoa(p.Step), ftoa(p.Best), ftoa(p.Current)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
