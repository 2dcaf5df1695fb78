package pipeline

import "sync"

// Executor is a fixed-size shared worker pool. Every pipeline future is
// completed on this pool; callers never get a dedicated goroutine per
// transformation.
type Executor struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// NewExecutor starts a pool with the given number of workers.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = 4 // default
	}

	e := &Executor{
		tasks: make(chan func(), workers*4),
	}

	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer e.wg.Done()
			for task := range e.tasks {
				task()
			}
		}()
	}
	return e
}

// Submit enqueues a task, blocking while the queue is full. Submitting
// after Close panics on the closed channel, so Close must only be
// called once no more work will arrive.
func (e *Executor) Submit(task func()) {
	e.tasks <- task
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (e *Executor) Close() {
	e.once.Do(func() {
		close(e.tasks)
	})
	e.wg.Wait()
}
