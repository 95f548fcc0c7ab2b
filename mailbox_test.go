// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"sync"
	"testing"
)

func TestMailboxFIFOOrder(t *testing.T) {
	var mb Mailbox

	for i := 0; i < 4; i++ {
		mb.push(&Message{Tag: TagCast, Payload: i})
	}
	if !mb.drainSignalStack() {
		t.Fatal("drainSignalStack: got false, want true")
	}

	for i := 0; i < 4; i++ {
		m := mb.popMatching(nil)
		if m == nil {
			t.Fatalf("popMatching(%d): got nil", i)
		}
		if m.Payload != i {
			t.Fatalf("popMatching(%d): payload = %v, want %d", i, m.Payload, i)
		}
	}
	if m := mb.popMatching(nil); m != nil {
		t.Fatalf("popMatching on empty mailbox: got %v, want nil", m.Payload)
	}
}

func TestMailboxSelectiveReceive(t *testing.T) {
	var mb Mailbox

	mb.push(&Message{Tag: TagCast, Payload: "a"})
	mb.push(&Message{Tag: TagCall, Payload: "b"})
	mb.push(&Message{Tag: TagCast, Payload: "c"})
	mb.drainSignalStack()

	m := mb.popMatching(func(m *Message) bool { return m.Tag == TagCall })
	if m == nil || m.Payload != "b" {
		t.Fatalf("popMatching(TagCall): got %v", m)
	}

	first := mb.popMatching(nil)
	if first == nil || first.Payload != "a" {
		t.Fatalf("popMatching(nil) after selective pop: got %v, want \"a\"", first)
	}
}

func TestMailboxConcurrentPush(t *testing.T) {
	var mb Mailbox
	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				mb.push(&Message{Tag: TagCast, Payload: i})
			}
		}()
	}
	wg.Wait()

	mb.drainSignalStack()
	count := 0
	for mb.popMatching(nil) != nil {
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("total delivered = %d, want %d", count, producers*perProducer)
	}
}
