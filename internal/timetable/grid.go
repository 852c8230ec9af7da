package timetable

// Day — день недели на дискретной сетке расписания.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Day) String() string {
	if d < 0 || int(d) >= len(dayNames) {
		return "???"
	}
	return dayNames[d]
}

// Тип аудитории
type RoomType string

const (
	RoomAmphitheater RoomType = "amphitheater"
	RoomClassroom    RoomType = "classroom"
	RoomLab          RoomType = "lab"
)

// Тип занятия
type SessionType string

const (
	SessionLecture  SessionType = "lecture"
	SessionTutorial SessionType = "tutorial"
	SessionLab      SessionType = "lab"
)

// DefaultRoomCompat — таблица совместимости типа занятия и типа аудитории.
// Таблица тотальна и фиксирована в рамках запуска; при необходимости
// может быть переопределена через Instance.RoomCompat.
func DefaultRoomCompat() map[SessionType]map[RoomType]bool {
	return map[SessionType]map[RoomType]bool{
		SessionLecture:  {RoomAmphitheater: true, RoomClassroom: true},
		SessionTutorial: {RoomClassroom: true, RoomLab: true},
		SessionLab:      {RoomLab: true},
	}
}

func validRoomType(t RoomType) bool {
	switch t {
	case RoomAmphitheater, RoomClassroom, RoomLab:
		return true
	}
	return false
}

func validSessionType(t SessionType) bool {
	switch t {
	case SessionLecture, SessionTutorial, SessionLab:
		return true
	}
	return false
}
