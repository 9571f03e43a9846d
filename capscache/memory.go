// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package capscache

import (
	"context"
	"slices"
	"sync"

	"github.com/cburschka/strophe-cadence/disco"
)

// Memory is a Store that keeps info in memory.
// The zero value is ready to use.
type Memory struct {
	mu    sync.RWMutex
	infos map[Key]disco.Info
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{infos: make(map[Key]disco.Info)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, k Key) (disco.Info, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.infos[k]
	if !ok {
		return disco.Info{}, false, nil
	}
	return cloneInfo(info), true, nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, k Key, info disco.Info) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.infos == nil {
		m.infos = make(map[Key]disco.Info)
	}
	m.infos[k] = cloneInfo(info)
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.infos)
}

func cloneInfo(info disco.Info) disco.Info {
	return disco.Info{
		Identities: slices.Clone(info.Identities),
		Features:   slices.Clone(info.Features),
	}
}
