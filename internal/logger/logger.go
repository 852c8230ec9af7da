package logger

// Logger — минимальный интерфейс журналирования, используемый солверами.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// Infow пишет сообщение со структурированными полями.
	Infow(msg string, fields map[string]any)
}

// Nop — заглушка для тестов и по умолчанию.
type Nop struct{}

func (Nop) Debugf(string, ...any)        {}
func (Nop) Infof(string, ...any)         {}
func (Nop) Warnf(string, ...any)         {}
func (Nop) Errorf(string, ...any)        {}
func (Nop) Infow(string, map[string]any) {}
