// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// spinlock is a short-hold busy-wait lock built from the teacher's own
// CAS-retry idiom (atomix CompareAndSwap + spin.Wait backoff), used for
// the arena's free-list stacks, which are only ever held for a handful
// of slice operations.
type spinlock struct {
	locked atomix.Bool
}

func (l *spinlock) Lock() {
	var w spin.Wait
	for !l.locked.CompareAndSwapAcqRel(false, true) {
		w.Once()
	}
}

func (l *spinlock) Unlock() {
	l.locked.StoreRelease(false)
}

// partition is one scheduler's share of the arena: a stack of free slab
// slots and a stack of free heap blocks, both guarded by the one
// spinlock mu.
type partition struct {
	_          pad
	mu         spinlock
	freeSlots  []int32
	freeBlocks []int32
}

// Arena is the single pre-sized memory region backing every process:
// a slab of Process structs and a pool of fixed InitialHeapBytes blocks,
// split NumSchedulers ways so that allocation on the common path never
// contends across schedulers.
type Arena struct {
	slab       []Process
	heapBlocks [][InitialHeapBytes]byte
	partitions []partition
	nextPid    atomix.Uint64
}

// newArena builds an arena sized for capacity processes split evenly
// across numPartitions partitions. capacity is raised to at least
// numPartitions and then rounded down to a multiple of it, so the split
// is exact.
func newArena(capacity, numPartitions int) *Arena {
	if capacity < numPartitions {
		capacity = numPartitions
	}
	capacity -= capacity % numPartitions
	a := &Arena{
		slab:       make([]Process, capacity),
		heapBlocks: make([][InitialHeapBytes]byte, capacity),
		partitions: make([]partition, numPartitions),
	}
	per := capacity / numPartitions
	for i := range a.partitions {
		p := &a.partitions[i]
		p.freeSlots = make([]int32, 0, per)
		p.freeBlocks = make([]int32, 0, per)
		for j := 0; j < per; j++ {
			idx := int32(i*per + j)
			p.freeSlots = append(p.freeSlots, idx)
			p.freeBlocks = append(p.freeBlocks, idx)
		}
	}
	return a
}

// alloc reserves one process slot and one heap block for partition hint,
// stealing half of a sibling partition's free lists on local exhaustion.
// Returns the allocated *Process (state StateFree, freshly reset) and
// true, or nil, false if every partition is exhausted.
func (a *Arena) alloc(hint int) (*Process, bool) {
	slot, block, ok := a.allocIndices(hint)
	if !ok {
		return nil, false
	}
	p := &a.slab[slot]
	p.reset()
	p.slot = slot
	p.heapSlot = block
	p.pid = a.nextPid.AddAcqRel(1)
	p.heap = a.heapBlocks[block][:]
	p.schedulerHint = int32(hint)
	p.state.Store(int32(StateFree))
	return p, true
}

func (a *Arena) allocIndices(hint int) (int32, int32, bool) {
	dst := &a.partitions[hint]
	dst.mu.Lock()
	if len(dst.freeSlots) > 0 && len(dst.freeBlocks) > 0 {
		slot := dst.freeSlots[len(dst.freeSlots)-1]
		dst.freeSlots = dst.freeSlots[:len(dst.freeSlots)-1]
		block := dst.freeBlocks[len(dst.freeBlocks)-1]
		dst.freeBlocks = dst.freeBlocks[:len(dst.freeBlocks)-1]
		dst.mu.Unlock()
		return slot, block, true
	}
	dst.mu.Unlock()

	if a.stealInto(hint) {
		return a.allocIndices(hint)
	}
	return 0, 0, false
}

// stealInto moves half of some sibling partition's free lists into
// partition dstIdx's free lists. Locks are always acquired in ascending
// partition-index order to make deadlock impossible regardless of which
// partition is "dst" and which is "victim" in concurrent calls.
func (a *Arena) stealInto(dstIdx int) bool {
	n := len(a.partitions)
	for i := 1; i < n; i++ {
		vIdx := (dstIdx + i) % n
		if vIdx == dstIdx {
			continue
		}
		if a.stealFrom(dstIdx, vIdx) {
			return true
		}
	}
	return false
}

func (a *Arena) stealFrom(dstIdx, vIdx int) bool {
	lo, hi := dstIdx, vIdx
	if hi < lo {
		lo, hi = hi, lo
	}
	a.partitions[lo].mu.Lock()
	defer a.partitions[lo].mu.Unlock()
	if hi != lo {
		a.partitions[hi].mu.Lock()
		defer a.partitions[hi].mu.Unlock()
	}

	dst := &a.partitions[dstIdx]
	victim := &a.partitions[vIdx]

	n := len(victim.freeSlots)
	if len(victim.freeBlocks) < n {
		n = len(victim.freeBlocks)
	}
	if n == 0 {
		return false
	}
	take := (n + 1) / 2 // ceil(n/2), per spec.md §4.1
	if take > stealBatchCap {
		take = stealBatchCap
	}
	slotsFrom := len(victim.freeSlots) - take
	blocksFrom := len(victim.freeBlocks) - take
	dst.freeSlots = append(dst.freeSlots, victim.freeSlots[slotsFrom:]...)
	victim.freeSlots = victim.freeSlots[:slotsFrom]
	dst.freeBlocks = append(dst.freeBlocks, victim.freeBlocks[blocksFrom:]...)
	victim.freeBlocks = victim.freeBlocks[:blocksFrom]
	return true
}

// stealBatchCap bounds a single steal, per spec.md §4.1 ("ceil(n/2) up to
// a batch size (64)"): a partition recovering from total exhaustion never
// drains a sibling by more than this many slots/blocks in one steal.
const stealBatchCap = 64

// free returns a process's slot and heap block to its owning partition.
// The caller must have already transitioned p to StateFree and be sure
// no other goroutine still references it.
func (a *Arena) free(p *Process) {
	slot := p.slot
	block := p.heapSlot
	part := &a.partitions[p.schedulerHint]
	part.mu.Lock()
	part.freeSlots = append(part.freeSlots, slot)
	part.freeBlocks = append(part.freeBlocks, block)
	part.mu.Unlock()
}

// occupancy returns a coarse (racy) count of allocated slots, for Stats.
func (a *Arena) occupancy() (used, capacity int) {
	capacity = len(a.slab)
	free := 0
	for i := range a.partitions {
		p := &a.partitions[i]
		p.mu.Lock()
		free += len(p.freeSlots)
		p.mu.Unlock()
	}
	return capacity - free, capacity
}
