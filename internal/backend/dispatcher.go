package backend

import (
	"fmt"
	"sync"

	"github.com/brizzai/backend-client/internal/logger"
	"go.uber.org/zap"
)

// Dispatcher is the context completion callbacks run on.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks on the goroutine that delivers the result.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// SerialQueue runs callbacks one at a time, in submission order. Dispatch
// never blocks and never runs fn on the caller, so a callback may dispatch
// further work, including while Close is draining.
//
// At most one drain goroutine exists at a time. It is started by the first
// Dispatch into an empty queue and exits once the queue is empty again.
type SerialQueue struct {
	mu      sync.Mutex
	idle    *sync.Cond
	pending []func()
	running bool
}

// NewSerialQueue creates an empty queue.
func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Dispatch enqueues fn.
func (q *SerialQueue) Dispatch(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, fn)
	if !q.running {
		q.running = true
		go q.drain()
	}
}

// Close waits until every dispatched callback has run, including callbacks
// dispatched by those callbacks. The queue stays usable afterwards. Close must
// not be called from a callback.
func (q *SerialQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.running {
		q.idle.Wait()
	}
	return nil
}

func (q *SerialQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		invoke(fn)
	}
}

func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("completion callback panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}
