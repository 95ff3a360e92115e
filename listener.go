package pinlog

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// MaxListeners is the number of listeners of each kind a Logger accepts.
const MaxListeners = 5

var (
	errListenersFull = fmt.Errorf("max limit(%d) has reached", MaxListeners)
	errNotComparable = errors.New("listener type is not comparable")
)

// StringListener receives the formatted text of every logged record.
// Listeners run synchronously on the logging goroutine. Implementations
// must be comparable (typically pointers); others are rejected on add.
type StringListener interface {
	OnLogAdded(formatted string)
}

// RecordListener receives every logged record. CreatedAt is set, while ID is
// 0 because the record reaches listeners before the store assigns one.
type RecordListener interface {
	OnRecordAdded(record LogRecord)
}

type stringListenerFunc struct{ fn func(string) }

func (l *stringListenerFunc) OnLogAdded(s string) { l.fn(s) }

// StringListenerFunc wraps fn. Keep the returned value to remove it later.
func StringListenerFunc(fn func(formatted string)) StringListener {
	return &stringListenerFunc{fn: fn}
}

type recordListenerFunc struct{ fn func(LogRecord) }

func (l *recordListenerFunc) OnRecordAdded(r LogRecord) { l.fn(r) }

// RecordListenerFunc wraps fn. Keep the returned value to remove it later.
func RecordListenerFunc(fn func(record LogRecord)) RecordListener {
	return &recordListenerFunc{fn: fn}
}

// listenerSet is a small capped registry.
type listenerSet[T comparable] struct {
	mu    sync.RWMutex
	items []T
}

// add appends l unless the set is full or l could never be removed again.
func (s *listenerSet[T]) add(l T) error {
	if !comparableValue(l) {
		return errNotComparable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) >= MaxListeners {
		return errListenersFull
	}
	s.items = append(s.items, l)
	return nil
}

// remove drops the first registration equal to l. A value that only fails
// comparison at run time, such as an interface field holding a slice, is
// reported as not found.
func (s *listenerSet[T]) remove(l T) (removed bool) {
	if !comparableValue(l) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if recover() != nil {
			removed = false
		}
	}()
	for i, existing := range s.items {
		if existing == l {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *listenerSet[T]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *listenerSet[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *listenerSet[T]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return nil
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func comparableValue(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}
