package pinlog

import (
	"fmt"
	"time"
)

// Log records message under tag at level.
func (l *Logger) Log(tag, message string, level Level) {
	l.log(tag, message, level, nil)
}

// LogCause records message with the stack trace of cause appended.
func (l *Logger) LogCause(tag, message string, cause error, level Level) {
	l.log(tag, message, level, cause)
}

// Error logs at ERROR. An optional cause is rendered after the message.
func (l *Logger) Error(tag, message string, cause ...error) {
	l.log(tag, message, ERROR, firstErr(cause))
}

// Warn logs at WARN.
func (l *Logger) Warn(tag, message string, cause ...error) {
	l.log(tag, message, WARN, firstErr(cause))
}

// Info logs at INFO.
func (l *Logger) Info(tag, message string, cause ...error) {
	l.log(tag, message, INFO, firstErr(cause))
}

// Debug logs at DEBUG.
func (l *Logger) Debug(tag, message string, cause ...error) {
	l.log(tag, message, DEBUG, firstErr(cause))
}

// LogAsString formats a record without logging it. It returns false before
// initialization.
func (l *Logger) LogAsString(tag, message string, cause error, level Level) (string, bool) {
	snap := l.snapshot()
	if !snap.initialized {
		l.internal(WARN, "LogAsString called before initialization", nil)
		return "", false
	}
	return l.format(snap, tag, message, cause, level, l.now()), true
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Logger) log(tag, message string, level Level, cause error) {
	if tag == ReservedTag {
		return
	}
	if !level.Valid() {
		level = DEBUG
	}

	snap := l.snapshot()
	if snap.devLogging {
		l.console.Load().emit(level, tag, message, cause)
	}

	now := l.now()
	formatted := l.format(snap, tag, message, cause, level, now)
	if !snap.initialized {
		return
	}

	rec := LogRecord{
		Message:   formatted,
		Level:     level,
		Tag:       tag,
		CreatedAt: now.UnixMilli(),
	}

	if snap.storeLogs && snap.st != nil {
		st, row := snap.st, rec
		submitted := l.queue.Submit(func() {
			if !st.Insert(&row) {
				l.internal(WARN, "failed to store log", nil)
			}
		})
		if !submitted {
			l.internal(WARN, "logger is closed; record not stored", nil)
		}
	}

	l.notify(formatted, rec)
}

// format runs the active Formatter, falling back to DefaultFormatter if it
// panics.
func (l *Logger) format(snap snapshot, tag, message string, cause error, level Level, now time.Time) (out string) {
	e := Entry{
		Tag:         tag,
		Message:     message,
		Cause:       cause,
		Time:        now,
		Level:       level,
		VersionName: snap.versionName,
		VersionCode: snap.versionCode,
		PackageName: snap.packageName,
	}
	defer func() {
		if r := recover(); r != nil {
			l.internal(ERROR, "formatter panicked", fmt.Errorf("%v", r))
			out = DefaultFormatter{}.Format(e)
		}
	}()
	return l.Formatter().Format(e)
}

func (l *Logger) notify(formatted string, rec LogRecord) {
	for _, sl := range l.strListeners.snapshot() {
		l.guardListener(sl, func() { sl.OnLogAdded(formatted) })
	}
	for _, rl := range l.recListeners.snapshot() {
		l.guardListener(rl, func() { rl.OnRecordAdded(rec) })
	}
}

// guardListener keeps one failing listener from affecting the others or
// the caller.
func (l *Logger) guardListener(listener any, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.internal(WARN, fmt.Sprintf("listener %T panicked", listener), fmt.Errorf("%v", r))
		}
	}()
	fn()
}

// AddStringListener registers sl. It returns false when MaxListeners string
// listeners are already registered or sl is not comparable.
func (l *Logger) AddStringListener(sl StringListener) bool {
	if sl == nil {
		return false
	}
	return l.listenerAdded(l.strListeners.add(sl))
}

// RemoveStringListener unregisters sl.
func (l *Logger) RemoveStringListener(sl StringListener) bool {
	return l.strListeners.remove(sl)
}

// AddRecordListener registers rl. It returns false when MaxListeners record
// listeners are already registered.
func (l *Logger) AddRecordListener(rl RecordListener) bool {
	if rl == nil {
		return false
	}
	return l.listenerAdded(l.recListeners.add(rl))
}

func (l *Logger) listenerAdded(err error) bool {
	if err != nil {
		l.internal(WARN, "Could not add new listener", err)
		return false
	}
	return true
}

// RemoveRecordListener unregisters rl.
func (l *Logger) RemoveRecordListener(rl RecordListener) bool {
	return l.recListeners.remove(rl)
}

// RemoveAllListeners unregisters every listener of both kinds.
func (l *Logger) RemoveAllListeners() {
	l.strListeners.clear()
	l.recListeners.clear()
}

// ListenerCount returns the number of string and record listeners.
func (l *Logger) ListenerCount() (strings, records int) {
	return l.strListeners.len(), l.recListeners.len()
}

// TaggedLogger logs every record under one tag.
type TaggedLogger struct {
	l   *Logger
	tag string
}

// Tagged returns a logger bound to tag, typically a component name.
func (l *Logger) Tagged(tag string) *TaggedLogger {
	return &TaggedLogger{l: l, tag: tag}
}

func (t *TaggedLogger) Tag() string { return t.tag }

func (t *TaggedLogger) Log(message string, level Level) { t.l.log(t.tag, message, level, nil) }

func (t *TaggedLogger) Error(message string, cause ...error) {
	t.l.log(t.tag, message, ERROR, firstErr(cause))
}

func (t *TaggedLogger) Warn(message string, cause ...error) {
	t.l.log(t.tag, message, WARN, firstErr(cause))
}

func (t *TaggedLogger) Info(message string, cause ...error) {
	t.l.log(t.tag, message, INFO, firstErr(cause))
}

func (t *TaggedLogger) Debug(message string, cause ...error) {
	t.l.log(t.tag, message, DEBUG, firstErr(cause))
}
