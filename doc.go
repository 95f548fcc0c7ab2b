// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package swarmrt is a lightweight, embeddable actor runtime: a
// multi-queue work-stealing scheduler running lightweight processes
// over lock-free mailboxes, with links, monitors, a name registry, and
// timers layered on top.
//
// # Quick Start
//
//	rt, err := swarmrt.NewConfig().Schedulers(4).Init()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Shutdown()
//
//	ref, err := swarmrt.Spawn(rt, func(self *swarmrt.Process, arg any) {
//	    for {
//	        msg, ok := self.Receive(nil, -1)
//	        if !ok {
//	            return
//	        }
//	        if msg.Tag == swarmrt.TagStop {
//	            return
//	        }
//	        fmt.Println(msg.Payload)
//	    }
//	}, nil)
//
//	// Send is a *Process method, so messages are sent from a process.
//	swarmrt.Spawn(rt, func(self *swarmrt.Process, arg any) {
//	    self.Send(ref, swarmrt.TagCast, "hello")
//	}, nil)
//
// # Processes and scheduling
//
// A process is a goroutine paired with a Process control block (PCB)
// allocated from a fixed-size [Arena]. Processes never run freely: a
// [Scheduler] hands control to a process's goroutine for one time slice
// of a configurable number of reductions, then takes it back, either
// because the process yielded (Yield, Receive with nothing pending,
// voluntary exit) or because its reduction budget ran out. Schedulers
// pick work by strict priority (PriorityMax down to PriorityLow, with a
// periodic low-priority step-down override) and steal from sibling
// schedulers when their own queues run dry.
//
// # Mailboxes and selective receive
//
// Every process has a [Mailbox]: a lock-free stack any sender may push
// onto without blocking, and a private FIFO only the owning process
// reads from. Receive supports selective receive — scanning past
// messages that do not match a predicate to find one that does — the
// way the actor systems this runtime is modeled on do.
//
// # Links, monitors, and supervision
//
// Link creates a bidirectional relationship: if either linked process
// exits abnormally, the other is killed too, unless it has enabled
// trap_exit, in which case it receives an EXIT message instead and can
// decide what to do. Monitor is the one-directional, one-shot
// equivalent: the monitoring process always receives a DOWN message,
// trap_exit or not. Both are the building blocks for supervision trees.
//
// # Logging
//
// Runtime lifecycle events (scheduler start/stop, process crashes and
// exits, arena exhaustion) are reported through a Logger, a
// logiface.Logger wired to zerolog by default. Pass a custom one with
// the Builder's Logger method.
//
// # Non-goals
//
// This package does not implement garbage collection of a process's
// private heap (Go's own GC reclaims it), source-language parsing,
// network transparency, persistence, or multi-node clustering. Its
// process model and mailbox are local-process constructs only.
package swarmrt
