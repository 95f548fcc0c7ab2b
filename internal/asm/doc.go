// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package asm provides the one architecture-specific primitive the
// runtime needs: reading the CPU's current stack pointer. The runtime
// records it when a process first runs and uses it for a diagnostic
// stack-depth measure; no stack limit is compared or enforced.
//
// CurrentSP is implemented in hand-written assembly for amd64 and arm64
// and returns 0 everywhere else, matching the teacher's own
// amd64||arm64-vs-generic build-tag split for its hot-path primitives.
package asm
