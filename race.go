// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package swarmrt

// RaceEnabled is true when the race detector is active. No code or test
// in this module branches on it.
const RaceEnabled = true
