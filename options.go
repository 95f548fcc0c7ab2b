// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

// Config holds the resolved settings a Builder produces.
type Config struct {
	schedulers      int
	capacity        int
	reductionBudget int64
	logger          *Logger
	taskWorkers     int
	taskQueueDepth  int
}

func defaultConfig() Config {
	return Config{
		schedulers:      4,
		capacity:        4096,
		reductionBudget: DefaultReductions,
		taskWorkers:     2,
		taskQueueDepth:  256,
	}
}

// Builder configures and creates a Runtime, mirroring the fluent
// New(capacity)/.SingleProducer()/.Build[T]() style this module's
// teacher uses for queue construction.
//
// Example:
//
//	rt, err := swarmrt.NewConfig().Schedulers(8).Capacity(16384).Init()
type Builder struct {
	cfg Config
}

// NewConfig creates a Builder with defaults: 4 schedulers, a 4096-process
// arena, and a 2000-reduction time slice.
func NewConfig() *Builder {
	return &Builder{cfg: defaultConfig()}
}

// Schedulers sets the number of scheduler goroutines, each locked to its
// own OS thread. Panics if n is outside [1, MaxSchedulers].
func (b *Builder) Schedulers(n int) *Builder {
	if n < 1 || n > MaxSchedulers {
		panic("swarmrt: schedulers out of range")
	}
	b.cfg.schedulers = n
	return b
}

// Capacity sets the arena's process capacity. Panics if n is outside
// [1, MaxProcesses].
func (b *Builder) Capacity(n int) *Builder {
	if n < 1 || n > MaxProcesses {
		panic("swarmrt: capacity out of range")
	}
	b.cfg.capacity = n
	return b
}

// ReductionBudget sets the per-time-slice reduction count. Panics if n
// is not positive.
func (b *Builder) ReductionBudget(n int64) *Builder {
	if n < 1 {
		panic("swarmrt: reduction budget must be positive")
	}
	b.cfg.reductionBudget = n
	return b
}

// Logger wires an ambient structured logger for runtime lifecycle
// events. If never called, Init installs a default stderr JSON logger.
func (b *Builder) Logger(l *Logger) *Builder {
	b.cfg.logger = l
	return b
}

// TaskWorkers sets the number of worker goroutines backing the
// runtime's task pool (see Process.Async). Panics if n is not positive.
func (b *Builder) TaskWorkers(n int) *Builder {
	if n < 1 {
		panic("swarmrt: task workers must be positive")
	}
	b.cfg.taskWorkers = n
	return b
}

// TaskQueueDepth sets the capacity of the task pool's bounded job
// queue. Panics if n is smaller than 2 (the job queue's own minimum).
func (b *Builder) TaskQueueDepth(n int) *Builder {
	if n < 2 {
		panic("swarmrt: task queue depth must be >= 2")
	}
	b.cfg.taskQueueDepth = n
	return b
}

// Init builds and starts the Runtime: it allocates the arena, starts one
// goroutine per scheduler, and starts the timer service goroutine.
func (b *Builder) Init() (*Runtime, error) {
	return newRuntime(b.cfg)
}
