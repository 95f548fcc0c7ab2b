// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import "testing"

func TestArenaAllocFree(t *testing.T) {
	a := newArena(8, 2)

	p, ok := a.alloc(0)
	if !ok {
		t.Fatal("alloc: got false, want true on a fresh arena")
	}
	if p.State() != StateFree {
		t.Fatalf("alloc: state = %s, want free", p.State())
	}
	if len(p.heap) != InitialHeapBytes {
		t.Fatalf("alloc: heap len = %d, want %d", len(p.heap), InitialHeapBytes)
	}

	used, capc := a.occupancy()
	if capc != 8 {
		t.Fatalf("occupancy cap = %d, want 8", capc)
	}
	if used != 1 {
		t.Fatalf("occupancy used = %d, want 1", used)
	}

	a.free(p)
	used, _ = a.occupancy()
	if used != 0 {
		t.Fatalf("occupancy used after free = %d, want 0", used)
	}
}

func TestArenaExhaustion(t *testing.T) {
	a := newArena(4, 2)

	var got []*Process
	for {
		p, ok := a.alloc(0)
		if !ok {
			break
		}
		got = append(got, p)
	}
	if len(got) != 4 {
		t.Fatalf("allocated %d processes, want 4", len(got))
	}
	if _, ok := a.alloc(1); ok {
		t.Fatal("alloc on exhausted arena returned ok=true")
	}
}

// TestArenaSteal exercises the cross-partition steal path: once
// partition 1's own 4 slots are exhausted, further allocs hinted at it
// must steal from partition 0 rather than fail, and the arena's total
// capacity must still be exactly exhaustible.
func TestArenaSteal(t *testing.T) {
	a := newArena(8, 2)

	n := 0
	for {
		if _, ok := a.alloc(1); !ok {
			break
		}
		n++
	}
	if n != 8 {
		t.Fatalf("alloc(1) until exhaustion: got %d, want 8 (steal must reach partition 0)", n)
	}
	if _, ok := a.alloc(0); ok {
		t.Fatal("alloc(0) after total exhaustion: got true, want false")
	}
}

// TestArenaSlotHeapPairingSurvivesSteal guards against the slot/heap-block
// desync bug: after a steal moves the two free lists independently, a
// freshly allocated process's heap slice must still belong to its own
// heapSlot, not whatever heapSlot happened to be adjacent before the
// steal reordered things.
func TestArenaSlotHeapPairingSurvivesSteal(t *testing.T) {
	a := newArena(16, 4)

	// Partition 0 holds 4 slots, so allocs 5..8 are served by steals.
	for i := 0; i < 8; i++ {
		p, ok := a.alloc(0)
		if !ok {
			t.Fatalf("alloc #%d: got false", i)
		}
		want := &a.heapBlocks[p.heapSlot][0]
		if &p.heap[0] != want {
			t.Fatalf("process %d: heap does not point at its own heapSlot block", i)
		}
	}
}
