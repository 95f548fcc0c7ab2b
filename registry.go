// Copyright 2026 The swarmrt Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package swarmrt

import "sync"

// registry is a name-to-process table guarded by a single RWMutex,
// matching spec.md §4.6 and the reader-mostly bucketed-map pattern shown
// in the pack's own registry example. RegistryBuckets is retained as a
// named constant (see tags.go) for doc parity with spec.md even though
// Go's builtin map does its own internal bucketing.
type registry struct {
	mu    sync.RWMutex
	names map[string]*Process
}

func newRegistry() *registry {
	return &registry{names: make(map[string]*Process, RegistryBuckets)}
}

// register binds name to p. Fails with ErrInvalidName for an empty or
// over-length name, ErrNameTaken if another live process already owns
// the name, and ErrAlreadyRegistered if p itself already owns a
// different name — each process may hold at most one registered name,
// and each name may resolve to at most one process, per spec.md.
func (r *registry) register(name string, p *Process) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.registryName != "" {
		return ErrAlreadyRegistered
	}
	if _, ok := r.names[name]; ok {
		return ErrNameTaken
	}
	r.names[name] = p
	p.registryName = name
	return nil
}

// unregister removes name's binding, if any. The death routine clears a
// dying process's name through unregisterProcess instead.
func (r *registry) unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.names[name]
	if !ok {
		return ErrUnknownName
	}
	delete(r.names, name)
	if p.registryName == name {
		p.registryName = ""
	}
	return nil
}

// whereis resolves name to its currently bound process, if any.
func (r *registry) whereis(name string) (*Process, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.names[name]
	return p, ok
}

// unregisterProcess drops whatever name p holds, if any. Called from the
// death routine.
func (r *registry) unregisterProcess(p *Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.registryName == "" {
		return
	}
	delete(r.names, p.registryName)
	p.registryName = ""
}
