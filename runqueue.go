// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"code.hybscloud.com/atomix"
)

// runQueue is a Vyukov-style intrusive MPSC queue: any scheduler may push
// (including a scheduler stealing work it intends to push onto its own
// queue). Processes link through their own rqNext field, so pushing and
// popping never allocates.
//
// The sentinel stub node breaks the classic MPSC race where a concurrent
// pusher has claimed the new tail but has not yet linked it to the
// previous tail: pop() observes an inconsistent (but always temporary)
// state and returns nil rather than blocking, exactly as the algorithm
// requires.
//
// head is consumer-private in the sense that only one popper ever reads
// or advances it at a time — but "one at a time" is no longer the same
// goroutine for the queue's whole lifetime: the owning scheduler's own
// Run loop and a sibling scheduler's steal both call pop(), so head is
// guarded by consumerLock, a short-hold spinlock matching the same
// CAS-retry idiom the arena partitions use for their free-list steals.
// The lock is only ever held across pop()'s few pointer reads, so a
// stealer blocks an owner's pop for a handful of instructions at worst.
type runQueue struct {
	_            pad
	consumerLock spinlock
	head         *Process // guarded by consumerLock
	_            pad
	tail         atomix.Pointer[Process]
	stub         Process
}

func newRunQueue() *runQueue {
	q := &runQueue{}
	q.head = &q.stub
	q.tail.Store(&q.stub)
	return q
}

// push is safe to call from any goroutine.
func (q *runQueue) push(p *Process) {
	p.rqNext.StoreRelease(nil)
	prev := q.tail.SwapAcqRel(p)
	prev.rqNext.StoreRelease(p)
}

// pop is safe to call from the queue's owning scheduler and from any
// sibling scheduler stealing work from it; consumerLock serializes the
// two. It returns nil both when the queue is genuinely empty and,
// transiently, when a concurrent push is mid-flight; callers already
// loop over multiple queues per tick so a spurious nil costs nothing.
func (q *runQueue) pop() *Process {
	q.consumerLock.Lock()
	defer q.consumerLock.Unlock()

	head := q.head
	next := head.rqNext.LoadAcquire()

	if head == &q.stub {
		if next == nil {
			return nil
		}
		q.head = next
		head = next
		next = next.rqNext.LoadAcquire()
	}

	if next != nil {
		q.head = next
		return head
	}

	if head != q.tail.LoadAcquire() {
		return nil // producer claimed tail, link not yet visible
	}

	q.push(&q.stub)

	next = head.rqNext.LoadAcquire()
	if next != nil {
		q.head = next
		return head
	}
	return nil
}

// empty is a best-effort, racy check used only for diagnostics (Stats)
// and the low-priority step-down heuristic; it must never gate
// correctness. Deliberately does not take consumerLock: a stale read
// here only costs an extra no-op scan, never corrupts the queue.
func (q *runQueue) empty() bool {
	return q.head == &q.stub && q.head.rqNext.LoadAcquire() == nil
}

// runQueues bundles the four priority-class queues a single scheduler
// owns.
type runQueues struct {
	q    [numPriorities]*runQueue
	tick uint64
}

func newRunQueues() *runQueues {
	rq := &runQueues{}
	for i := range rq.q {
		rq.q[i] = newRunQueue()
	}
	return rq
}

func (rq *runQueues) push(p *Process) {
	rq.q[p.priority].push(p)
}

// pick applies the priority scan with a 1-in-8 low-priority step-down
// override described in spec.md §4.5: ordinarily max → high → normal →
// low, but every eighth tick low is checked first so it cannot starve
// forever behind a sustained stream of higher-priority work.
func (rq *runQueues) pick() *Process {
	rq.tick++
	if rq.tick%8 == 0 {
		if p := rq.q[PriorityLow].pop(); p != nil {
			return p
		}
	}
	for pr := PriorityMax; pr < numPriorities; pr++ {
		if p := rq.q[pr].pop(); p != nil {
			return p
		}
	}
	return nil
}

// steal takes one process from these queues on behalf of a sibling
// scheduler. Unlike pick, it never touches tick: tick is only ever
// written by the owning scheduler's own Run loop, and a second writer
// would race on that plain uint64. Priority order is still honored
// (max before low); only the 1-in-8 low-priority step-down, which is a
// purely local fairness heuristic for the owner's own scan, is skipped.
func (rq *runQueues) steal() *Process {
	for pr := PriorityMax; pr < numPriorities; pr++ {
		if p := rq.q[pr].pop(); p != nil {
			return p
		}
	}
	return nil
}

// depth reports how many of the priority queues are non-empty (0 to
// numPriorities), a coarse and racy occupancy signal used by Stats.
func (rq *runQueues) depth() int {
	n := 0
	for _, q := range rq.q {
		if !q.empty() {
			n++ // a coarse presence count, not an exact length
		}
	}
	return n
}
