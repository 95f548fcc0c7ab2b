// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build amd64 || arm64

package asm_test

import (
	"testing"

	"github.com/skyblanket/swarmrt/internal/asm"
)

// TestCurrentSPNonZero sanity-checks that the hand-written accessor
// returns something resembling a real stack address rather than the
// "unsupported" sentinel the generic fallback returns.
func TestCurrentSPNonZero(t *testing.T) {
	sp := asm.CurrentSP()
	if sp == 0 {
		t.Fatal("CurrentSP returned 0 on a supported architecture")
	}
}

// TestCurrentSPTracksDepth checks that calling CurrentSP from a deeper
// call frame yields a value consistent with a downward-growing stack,
// which is true for both amd64 and arm64.
func TestCurrentSPTracksDepth(t *testing.T) {
	outer := asm.CurrentSP()
	inner := deeperSP()
	if inner == 0 || outer == 0 {
		t.Fatal("CurrentSP returned 0")
	}
	if inner >= outer {
		t.Fatalf("expected deeper frame to have a lower SP: outer=%#x inner=%#x", outer, inner)
	}
}

// deeperSP reads the stack pointer from its own frame, one call below its
// caller. It must not be inlined, or it would share the caller's frame.
//
//go:noinline
func deeperSP() uintptr {
	return asm.CurrentSP()
}
