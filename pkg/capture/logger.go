package capture

// Logger receives captured console events. The console calls Log inline
// on its write path, so implementations must be safe for concurrent use
// and return quickly.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// Tee returns a Logger that hands each event to every non-nil logger in
// order. With no loggers it returns a NoopLogger, and with exactly one it
// returns that logger unwrapped.
func Tee(loggers ...Logger) Logger {
	var live tee
	for _, l := range loggers {
		if l != nil {
			live = append(live, l)
		}
	}
	switch len(live) {
	case 0:
		return NoopLogger{}
	case 1:
		return live[0]
	}
	return live
}

type tee []Logger

func (t tee) Log(event Event) {
	for _, l := range t {
		l.Log(event)
	}
}
