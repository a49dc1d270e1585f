package otelshim

import (
	"log"
	"sync"
	"sync/atomic"
)

// An EventHandler receives every event emitted by the shim. Handlers must be
// cheap and must not block: events are emitted synchronously from
// instrumentation call paths.
type EventHandler func(Event)

var eventHandler atomic.Value

func init() {
	SetGlobalEventHandler(NewLogOnceOnError())
}

// SetGlobalEventHandler installs the handler invoked for every shim event.
// The default handler logs the first error event through the standard go
// logger and stays quiet afterwards.
func SetGlobalEventHandler(handler EventHandler) {
	eventHandler.Store(handler)
}

func emitEvent(event Event) {
	if handler, ok := eventHandler.Load().(EventHandler); ok && handler != nil {
		handler(event)
	}
}

// NewLogOnError returns an event handler that logs every error event using
// the standard go logger.
func NewLogOnError() EventHandler {
	return func(event Event) {
		if err, ok := event.(ErrorEvent); ok {
			log.Println("otelshim error: ", err.Error())
		}
	}
}

type logOneError struct {
	sync.Once
}

func (l *logOneError) handle(event Event) {
	if err, ok := event.(ErrorEvent); ok {
		l.Once.Do(func() {
			log.Printf("otelshim instrumentation error: (%s). NOTE: subsequent errors will not be logged.\n", err.Error())
		})
	}
}

// NewLogOnceOnError returns an event handler that only logs the first error
// event it sees.
func NewLogOnceOnError() EventHandler {
	logger := logOneError{}
	return logger.handle
}

// NewEventChannel returns an event handler, and a channel that produces the
// events the handler receives. When the channel buffer is full, subsequent
// events will be dropped. A buffer size of less than one is incorrect, and
// will be adjusted to a buffer size of one.
func NewEventChannel(buffer int) (EventHandler, <-chan Event) {
	if buffer < 1 {
		buffer = 1
	}

	eventChan := make(chan Event, buffer)

	handler := func(event Event) {
		select {
		case eventChan <- event:
		default:
		}
	}

	return handler, eventChan
}
