// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !amd64 && !arm64

package asm

// CurrentSP is unimplemented on architectures without a hand-written
// accessor. It returns 0, a value callers must treat as "stack-depth
// check unavailable" rather than a real address, since there is no
// portable way to read the hardware stack pointer from Go.
func CurrentSP() uintptr {
	return 0
}
