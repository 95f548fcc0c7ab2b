// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Message is a single mailbox entry. From is the sender's Ref, or the
// zero Ref for messages originated by the runtime itself (timers).
type Message struct {
	Tag     Tag
	Payload any
	From    Ref

	sigNext atomix.Pointer[Message]
	next    *Message
	prev    *Message
}

// Mailbox is the two-part structure described in spec.md §4.3: a
// lock-free Treiber stack that any sender may push onto concurrently,
// and a process-private doubly-linked FIFO that only the owning
// process's goroutine ever touches. Senders never block; the owning
// process drains the signal stack (reversing it back into arrival
// order) only when no message in its private queue matches a receive.
type Mailbox struct {
	_ pad
	sigHead atomix.Pointer[Message]
	_       pad
	waiting atomix.Bool

	privHead *Message
	privTail *Message
	count    int
}

func (mb *Mailbox) reset() {
	mb.sigHead.Store(nil)
	mb.waiting.Store(false)
	mb.privHead = nil
	mb.privTail = nil
	mb.count = 0
}

// push is called by any goroutine (sender side) to deliver msg. It never
// blocks and never fails.
func (mb *Mailbox) push(msg *Message) {
	var w spin.Wait
	for {
		head := mb.sigHead.LoadAcquire()
		msg.sigNext.StoreRelaxed(head)
		if mb.sigHead.CompareAndSwapAcqRel(head, msg) {
			return
		}
		w.Once()
	}
}

// drainSignalStack atomically takes the entire signal stack and splices
// it, in arrival order, onto the tail of the private FIFO. Only the
// owning process calls this.
func (mb *Mailbox) drainSignalStack() bool {
	head := mb.sigHead.SwapAcqRel(nil)
	if head == nil {
		return false
	}
	// head..tail is in LIFO (most-recent-first) order; reverse it so the
	// private FIFO preserves arrival order.
	var rev *Message
	for n := head; n != nil; {
		next := n.sigNext.LoadAcquire()
		n.next = rev
		if rev != nil {
			rev.prev = n
		}
		rev = n
		n = next
	}
	for n := rev; n != nil; n = n.next {
		n.sigNext.StoreRelaxed(nil)
		if mb.privTail == nil {
			mb.privHead = n
			n.prev = nil
		} else {
			mb.privTail.next = n
			n.prev = mb.privTail
		}
		mb.privTail = n
		mb.count++
	}
	return true
}

// popMatching scans the private FIFO in order, removing and returning
// the first message for which match returns true. A nil match accepts
// the head unconditionally (ordinary non-selective receive).
func (mb *Mailbox) popMatching(match func(*Message) bool) *Message {
	for n := mb.privHead; n != nil; n = n.next {
		if match != nil && !match(n) {
			continue
		}
		mb.remove(n)
		return n
	}
	return nil
}

func (mb *Mailbox) remove(n *Message) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		mb.privHead = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		mb.privTail = n.prev
	}
	n.next, n.prev = nil, nil
	mb.count--
}

// Len returns the number of messages currently in the private FIFO. It
// does not account for messages still sitting in the signal stack and is
// intended for diagnostics, not flow control.
func (mb *Mailbox) Len() int {
	return mb.count
}
