// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"sync"

	"code.hybscloud.com/spin"
)

// TaskPriority selects which of the task pool's two lanes a submission
// through Async joins. Mirrors Priority's role in run-queue scheduling,
// scaled down to the two tiers a task pool actually needs.
type TaskPriority int32

const (
	// TaskNormal is the default lane for background work.
	TaskNormal TaskPriority = iota
	// TaskHigh jumps the queue ahead of any pending TaskNormal jobs,
	// reserved capacity that a backlog of normal-priority submissions
	// can never exhaust.
	TaskHigh
)

// AsyncOption configures a single Async submission.
type AsyncOption func(*taskJob)

// WithTaskPriority submits the job to TaskHigh's reserved lane instead
// of the default TaskNormal lane.
func WithTaskPriority(pr TaskPriority) AsyncOption {
	return func(j *taskJob) { j.priority = pr }
}

// taskJob is one unit of work submitted through Process.Async.
type taskJob struct {
	fn       func() any
	dest     Ref
	priority TaskPriority
}

// TaskPool runs arbitrary Go functions on a fixed set of worker
// goroutines outside the cooperative scheduling model, for blocking or
// CPU-bound work a process should not run inline (it would otherwise
// stall its scheduler's OS thread until the next checkpoint). Each
// result is delivered back to the requesting process as an ordinary
// mailbox message tagged TagTaskResult, so the caller retrieves it with
// a normal Receive.
type TaskPool struct {
	rt   *Runtime
	jobs *jobQueues[taskJob]
	done chan struct{}
	wg   sync.WaitGroup
}

func newTaskPool(rt *Runtime, workers, queueDepth int) *TaskPool {
	tp := &TaskPool{
		rt:   rt,
		jobs: newJobQueues[taskJob](queueDepth),
		done: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		tp.wg.Add(1)
		go tp.loop()
	}
	return tp
}

func (tp *TaskPool) loop() {
	defer tp.wg.Done()
	sw := spin.Wait{}
	for {
		job, err := tp.jobs.dequeue()
		if err != nil {
			select {
			case <-tp.done:
				return
			default:
			}
			sw.Once()
			continue
		}
		result := job.fn()
		tp.rt.sendSignal(job.dest, Message{Tag: TagTaskResult, Payload: result})
	}
}

// submit enqueues fn for execution on a worker goroutine, returning
// ErrWouldBlock if job's priority lane is full.
func (tp *TaskPool) submit(job taskJob) error {
	return tp.jobs.enqueue(&job, job.priority)
}

func (tp *TaskPool) shutdown() {
	close(tp.done)
	tp.jobs.drain()
	tp.wg.Wait()
}

// Async submits fn for execution on the runtime's task pool. Once fn
// returns, its result is delivered to self as a Message tagged
// TagTaskResult. Async returns ErrWouldBlock if the selected lane's job
// queue is momentarily full; the caller may retry. Pass WithTaskPriority
// to jump the reserved TaskHigh lane instead of the TaskNormal default.
//
// Unlike Send and Receive, fn runs on a dedicated worker goroutine, not
// on self's scheduler: it does not consume self's reduction budget and
// may block without stalling other processes.
func (self *Process) Async(fn func() any, opts ...AsyncOption) error {
	checkpoint(self)
	job := taskJob{fn: fn, dest: self.Ref(), priority: TaskNormal}
	for _, opt := range opts {
		opt(&job)
	}
	return self.rt.tasks.submit(job)
}
