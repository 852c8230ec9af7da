package timetable

// Assignment — размещение одного занятия на сетке.
type Assignment struct {
	Session  *Session
	Day      Day
	Start    int
	Duration int
	Room     *Room
}

// Schedule — полное расписание: по одному размещению на каждое занятие,
// в порядке следования Instance.Sessions.
type Schedule []Assignment
