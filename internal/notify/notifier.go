package notify

// Level classifies a notification for presentation purposes.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notifier receives fire-and-forget user-facing messages. Callers must
// not depend on delivery; a Nop sink is a valid implementation.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
func (Nop) Info(string)    {}
