// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build amd64

package asm

// CurrentSP returns the hardware stack pointer (RSP) of the calling
// goroutine at the point of the call.
//
//go:nosplit
//go:noescape
func CurrentSP() uintptr
