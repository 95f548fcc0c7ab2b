// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

// Tag identifies the kind of a Message. Reserved tag values below 0x100
// are assigned by this package and must never be produced by user code
// directly; spawn callbacks should treat an unrecognized reserved tag as
// a no-op rather than an error, since new reserved tags may be added in
// future versions.
type Tag uint64

// Reserved tags. Values match the wire-level constants this runtime was
// distilled from and must not be renumbered.
const (
	TagNone       Tag = 0
	TagExit       Tag = 1
	TagDown       Tag = 2
	TagTimer      Tag = 3
	TagCall       Tag = 10
	TagCast       Tag = 11
	TagStop       Tag = 12
	TagTaskResult Tag = 13
	TagCodeChange Tag = 14
	TagRemoteMsg  Tag = 16
	TagPortData   Tag = 20
	TagPortAccept Tag = 21
	TagPortClosed Tag = 22
)

// Configuration constants, per spec budget.
const (
	MaxSchedulers     = 64
	MaxProcesses      = 100_000
	InitialHeapBytes  = 256 * 8 // 2 KiB, 256 machine words
	DefaultReductions = 2000
	RegistryBuckets   = 4096
	MaxNameLength     = 64
)

// ReasonKilled is the conventional reason to pass to Kill for a forced
// death, distinguishing it from a process's own abnormal exit (any other
// non-zero reason); Kill records whatever reason its caller passes.
// ReasonNormal is the reason recorded by a process that returns
// from its entry function without panicking.
const (
	ReasonNormal int32 = 0
	ReasonKilled int32 = -1
)
