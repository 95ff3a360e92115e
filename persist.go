package pinlog

import "sync"

// workQueue runs tasks one at a time, in submission order, on a single
// goroutine. The backlog is unbounded.
type workQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup

	onPanic func(any)
}

func newWorkQueue(onPanic func(any)) *workQueue {
	q := &workQueue{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		onPanic: onPanic,
	}
	q.wg.Add(1)
	go q.runLoop()
	return q
}

// Submit queues task. It returns false once the queue has been shut down.
func (q *workQueue) Submit(task func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of queued tasks not yet picked up.
func (q *workQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *workQueue) runLoop() {
	defer q.wg.Done()
	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.done:
			// Run whatever was queued before shutdown.
			q.drain()
			return
		}
	}
}

func (q *workQueue) drain() {
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, task := range batch {
			q.run(task)
		}
	}
}

func (q *workQueue) run(task func()) {
	defer func() {
		if r := recover(); r != nil && q.onPanic != nil {
			q.onPanic(r)
		}
	}()
	task()
}

// Sync blocks until every task submitted before the call has run.
// It must not be called from inside a task.
func (q *workQueue) Sync() {
	flushed := make(chan struct{})
	if !q.Submit(func() { close(flushed) }) {
		return
	}
	<-flushed
}

// Shutdown runs the remaining backlog and stops the worker.
func (q *workQueue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.done)
	q.wg.Wait()
}
