package pinlog

import (
	"sync"

	"github.com/pkg/errors"
)

// FaultHandler receives panics that escaped a goroutine run through a
// FaultDispatcher.
type FaultHandler interface {
	HandleFault(goroutine string, cause error)
}

// FaultHandlerFunc adapts a function to FaultHandler.
type FaultHandlerFunc func(goroutine string, cause error)

func (f FaultHandlerFunc) HandleFault(goroutine string, cause error) { f(goroutine, cause) }

// FaultDispatcher routes recovered panics to a replaceable default handler.
// Without a handler a recovered panic is raised again, which crashes the
// process the usual way.
type FaultDispatcher struct {
	mu      sync.RWMutex
	handler FaultHandler
}

// NewFaultDispatcher returns a dispatcher using h, which may be nil.
func NewFaultDispatcher(h FaultHandler) *FaultDispatcher {
	return &FaultDispatcher{handler: h}
}

// DefaultHandler returns the current handler.
func (d *FaultDispatcher) DefaultHandler() FaultHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handler
}

// SetDefaultHandler replaces the handler and returns the previous one.
func (d *FaultDispatcher) SetDefaultHandler(h FaultHandler) FaultHandler {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.handler
	d.handler = h
	return prev
}

// Recover dispatches a panic in progress. It must be deferred directly:
//
//	defer dispatcher.Recover("worker")
func (d *FaultDispatcher) Recover(goroutine string) {
	if r := recover(); r != nil {
		d.Dispatch(goroutine, r)
	}
}

// Go runs fn on a new goroutine whose panics are dispatched.
func (d *FaultDispatcher) Go(goroutine string, fn func()) {
	go func() {
		defer d.Recover(goroutine)
		fn()
	}()
}

// Guard runs fn on the calling goroutine, dispatching a panic instead of
// propagating it.
func (d *FaultDispatcher) Guard(goroutine string, fn func()) {
	defer d.Recover(goroutine)
	fn()
}

// Dispatch hands a recovered value to the default handler.
func (d *FaultDispatcher) Dispatch(goroutine string, recovered any) {
	h := d.DefaultHandler()
	if h == nil {
		panic(recovered)
	}
	h.HandleFault(goroutine, asError(recovered))
}

// asError wraps a recovered value with the stack of the panicking goroutine,
// which is still intact while deferred calls run.
func asError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("panic: %v", recovered)
}
