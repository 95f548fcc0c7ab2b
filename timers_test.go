// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"testing"
	"time"
)

func TestTimersInsertSortedOrder(t *testing.T) {
	ts := newTimers(nil)
	now := time.Now()

	// Insert out of order; insertLocked must keep the list sorted by
	// deadline regardless of insertion order.
	e2 := &timerEntry{deadline: now.Add(20 * time.Millisecond)}
	e1 := &timerEntry{deadline: now.Add(10 * time.Millisecond)}
	e3 := &timerEntry{deadline: now.Add(30 * time.Millisecond)}

	ts.mu.Lock()
	ts.insertLocked(e2)
	ts.insertLocked(e1)
	ts.insertLocked(e3)
	ts.mu.Unlock()

	got := []*timerEntry{}
	for n := ts.head; n != nil; n = n.next {
		got = append(got, n)
	}
	if len(got) != 3 || got[0] != e1 || got[1] != e2 || got[2] != e3 {
		t.Fatalf("timer list not sorted: %#v", got)
	}
}

func TestTimersCancelTolerant(t *testing.T) {
	ts := newTimers(nil)
	ref := ts.sendAfter(Ref{}, "payload", time.Hour)

	ts.cancel(ref)
	if !ref.entry.canceled {
		t.Fatal("cancel: entry.canceled = false, want true")
	}

	// Canceling twice, or canceling a zero-value TimerRef, must not panic.
	ts.cancel(ref)
	ts.cancel(TimerRef{})
}

func TestTimersFireDueSkipsCanceled(t *testing.T) {
	rt := &Runtime{registry: newRegistry()}
	ts := newTimers(rt)
	a := newArena(2, 1)
	p, _ := a.alloc(0)
	p.state.Store(int32(StateRunnable)) // resolve ignores StateFree slots
	rt.arena = a

	ref := p.Ref()
	live := ts.sendAfter(ref, "keep", -time.Millisecond)
	canceled := ts.sendAfter(ref, "drop", -time.Millisecond)
	ts.cancel(canceled)
	_ = live

	ts.fireDue()

	p.mailbox.drainSignalStack()
	got := p.mailbox.popMatching(nil)
	if got == nil || got.Payload != "keep" {
		t.Fatalf("fireDue delivered %v, want \"keep\"", got)
	}
	if more := p.mailbox.popMatching(nil); more != nil {
		t.Fatalf("fireDue delivered extra message %v, canceled entry should be skipped", more.Payload)
	}
}
