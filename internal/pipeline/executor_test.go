package pipeline

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutorRunsAllTasks(t *testing.T) {
	exec := NewExecutor(4)

	var count int64
	for i := 0; i < 200; i++ {
		exec.Submit(func() {
			atomic.AddInt64(&count, 1)
		})
	}
	exec.Close()

	assert.Equal(t, int64(200), atomic.LoadInt64(&count))
}

func TestExecutorCloseIsIdempotent(t *testing.T) {
	exec := NewExecutor(1)
	exec.Submit(func() {})
	exec.Close()
	exec.Close() // second close must not panic
}

func TestExecutorDefaultsWorkerCount(t *testing.T) {
	exec := NewExecutor(0)
	defer exec.Close()

	done := make(chan struct{})
	exec.Submit(func() { close(done) })
	<-done
}
