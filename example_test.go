// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import (
	"testing"
	"time"
)

func newScenarioRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := newRuntime(Config{schedulers: 2, capacity: 64, reductionBudget: DefaultReductions})
	if err != nil {
		t.Fatalf("newRuntime: %v", err)
	}
	t.Cleanup(rt.Shutdown)
	return rt
}

// TestScenarioS1Registry: a worker receives three messages, is
// registered under a name while it runs, and is automatically
// unregistered once it exits.
func TestScenarioS1Registry(t *testing.T) {
	rt := newScenarioRuntime(t)

	countCh := make(chan int, 1)
	workerRef, err := Spawn(rt, func(self *Process, arg any) {
		n := 0
		for i := 0; i < 3; i++ {
			if _, ok := self.Receive(nil, 500*time.Millisecond); ok {
				n++
			}
		}
		countCh <- n
	}, nil, WithRegisteredName("counter"))
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if got, ok := Whereis(rt, "counter"); !ok || got != workerRef {
		t.Fatalf("Whereis(counter) = (%v, %v), want (%v, true)", got, ok, workerRef)
	}

	second, err := Spawn(rt, func(self *Process, arg any) {}, nil, WithRegisteredName("counter"))
	if err == nil {
		t.Fatal("registering a second worker under a taken name: got nil error")
	}
	_ = second

	for _, s := range []string{"a", "b", "c"} {
		target, ok := Whereis(rt, "counter")
		if !ok {
			t.Fatalf("Whereis(counter) before send %q: not found", s)
		}
		rt.sendSignal(target, Message{Tag: TagCast, Payload: s})
	}

	select {
	case n := <-countCh:
		if n != 3 {
			t.Fatalf("worker received %d messages, want 3", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("worker never finished")
	}

	time.Sleep(50 * time.Millisecond) // let the death routine run
	if _, ok := Whereis(rt, "counter"); ok {
		t.Fatal("Whereis(counter) after worker exit: got true, want false")
	}
}

// TestScenarioS2LinkPropagationWithTrap: a trapping parent links a child
// that exits with a specific non-normal reason, and receives an EXIT
// signal carrying that reason.
func TestScenarioS2LinkPropagationWithTrap(t *testing.T) {
	rt := newScenarioRuntime(t)

	resultCh := make(chan Signal, 1)
	_, err := Spawn(rt, func(self *Process, arg any) {
		self.SetTrapExit(true)

		childRef, _ := Spawn(rt, func(child *Process, arg any) {
			time.Sleep(50 * time.Millisecond)
			child.Exit(42)
		}, nil)
		self.Link(childRef)

		msg, ok := self.Receive(func(m *Message) bool { return m.Tag == TagExit }, 5*time.Second)
		if !ok {
			return
		}
		resultCh <- msg.Payload.(Signal)
	}, nil)
	if err != nil {
		t.Fatalf("Spawn parent: %v", err)
	}

	select {
	case sig := <-resultCh:
		if sig.Reason != 42 {
			t.Fatalf("EXIT reason = %d, want 42", sig.Reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("parent never received an EXIT signal")
	}
}

// TestScenarioS3LinkKillChain: a trapping coordinator links a child that
// exits with reason 1 and returns, and observes the EXIT signal.
func TestScenarioS3LinkKillChain(t *testing.T) {
	rt := newScenarioRuntime(t)

	resultCh := make(chan int32, 1)
	_, err := Spawn(rt, func(self *Process, arg any) {
		self.SetTrapExit(true)

		doomedRef, _ := Spawn(rt, func(doomed *Process, arg any) {
			time.Sleep(20 * time.Millisecond)
			doomed.Exit(1)
		}, nil)
		self.Link(doomedRef)

		msg, ok := self.Receive(func(m *Message) bool { return m.Tag == TagExit }, 5*time.Second)
		if !ok {
			return
		}
		resultCh <- msg.Payload.(Signal).Reason
	}, nil)
	if err != nil {
		t.Fatalf("Spawn coordinator: %v", err)
	}

	select {
	case reason := <-resultCh:
		if reason != 1 {
			t.Fatalf("EXIT reason = %d, want 1", reason)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("coordinator never received an EXIT signal")
	}
}

// TestScenarioS4MonitorDown: a watcher monitors a target and receives a
// DOWN message carrying the monitor's own tag and the target's Ref.
func TestScenarioS4MonitorDown(t *testing.T) {
	rt := newScenarioRuntime(t)

	resultCh := make(chan Signal, 1)
	targetRef, err := Spawn(rt, func(self *Process, arg any) {
		time.Sleep(50 * time.Millisecond)
	}, nil)
	if err != nil {
		t.Fatalf("Spawn target: %v", err)
	}

	_, err = Spawn(rt, func(self *Process, arg any) {
		tag, _ := self.Monitor(targetRef)
		msg, ok := self.Receive(func(m *Message) bool { return m.Tag == TagDown }, 5*time.Second)
		if !ok {
			return
		}
		sig := msg.Payload.(Signal)
		if sig.Tag != tag {
			return
		}
		resultCh <- sig
	}, nil)
	if err != nil {
		t.Fatalf("Spawn watcher: %v", err)
	}

	select {
	case sig := <-resultCh:
		if sig.From != targetRef {
			t.Fatalf("DOWN from = %v, want %v", sig.From, targetRef)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never received a matching DOWN")
	}
}

// TestScenarioS5SelectiveReceive: a receiver selectively waits for one
// tag out of three sent messages, then drains the rest in arrival order.
func TestScenarioS5SelectiveReceive(t *testing.T) {
	rt := newScenarioRuntime(t)

	resultCh := make(chan []string, 1)
	receiverRef, err := Spawn(rt, func(self *Process, arg any) {
		var order []string

		first, ok := self.Receive(func(m *Message) bool { return m.Tag == 102 }, 2*time.Second)
		if !ok {
			resultCh <- nil
			return
		}
		order = append(order, first.Payload.(string))

		for i := 0; i < 2; i++ {
			m, ok := self.Receive(nil, 100*time.Millisecond)
			if !ok {
				break
			}
			order = append(order, m.Payload.(string))
		}
		resultCh <- order
	}, nil)
	if err != nil {
		t.Fatalf("Spawn receiver: %v", err)
	}

	_, err = Spawn(rt, func(self *Process, arg any) {
		self.Send(receiverRef, 101, "ping")
		self.Send(receiverRef, 100, "pong")
		self.Send(receiverRef, 102, "the-data")
	}, nil)
	if err != nil {
		t.Fatalf("Spawn sender: %v", err)
	}

	select {
	case order := <-resultCh:
		want := []string{"the-data", "ping", "pong"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order = %v, want %v", order, want)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("receiver never finished")
	}
}

// TestScenarioS6Timer: a process schedules a timer against itself and
// receives the TIMER delivery within the expected window.
func TestScenarioS6Timer(t *testing.T) {
	rt := newScenarioRuntime(t)

	elapsedCh := make(chan time.Duration, 1)
	_, err := Spawn(rt, func(self *Process, arg any) {
		t0 := time.Now()
		SendAfter(rt, self.Ref(), "tick", 50*time.Millisecond)
		msg, ok := self.Receive(func(m *Message) bool { return m.Tag == TagTimer }, 2*time.Second)
		if !ok || msg.Payload != "tick" {
			return
		}
		elapsedCh <- time.Since(t0)
	}, nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	select {
	case elapsed := <-elapsedCh:
		if elapsed < 45*time.Millisecond || elapsed > 150*time.Millisecond {
			t.Fatalf("timer fired after %v, want 45ms..150ms", elapsed)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timer never fired")
	}
}
