package pinlog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherWithoutHandlerRepanics(t *testing.T) {
	d := NewFaultDispatcher(nil)
	assert.PanicsWithValue(t, "boom", func() {
		d.Guard("main", func() { panic("boom") })
	})
}

func TestDispatcherRoutesToHandler(t *testing.T) {
	rec := &faultRecorder{}
	d := NewFaultDispatcher(rec)

	sentinel := errors.New("sentinel")
	d.Guard("a", func() { panic(sentinel) })
	d.Guard("b", func() { panic(42) })
	d.Guard("c", func() {})

	require.Equal(t, 2, rec.count())
	assert.Equal(t, []string{"a", "b"}, rec.goroutines)
	assert.ErrorIs(t, rec.causes[0], sentinel)
	assert.EqualError(t, rec.causes[1], "panic: 42")
	// The cause carries the stack of the panicking goroutine.
	assert.Contains(t, fmt.Sprintf("%+v", rec.causes[0]), "TestDispatcherRoutesToHandler")
}

func TestDispatcherGo(t *testing.T) {
	done := make(chan string, 1)
	d := NewFaultDispatcher(FaultHandlerFunc(func(goroutine string, cause error) {
		done <- goroutine
	}))
	d.Go("background", func() { panic("bg") })
	assert.Equal(t, "background", <-done)
}

func TestSetDefaultHandlerReturnsPrevious(t *testing.T) {
	first := &faultRecorder{}
	second := &faultRecorder{}
	d := NewFaultDispatcher(first)
	assert.Same(t, first, d.SetDefaultHandler(second))
	assert.Same(t, second, d.DefaultHandler())
}
