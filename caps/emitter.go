// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps

import (
	"encoding/xml"
	"sync"

	"go.uber.org/zap"
	"mellium.im/xmpp/stanza"

	"github.com/cburschka/strophe-cadence/disco"
)

// Source supplies consistent snapshots of service discovery info.
// A *disco.Registry is a Source.
type Source interface {
	// Snapshot returns a copy of the info and the revision it was taken at.
	Snapshot() (disco.Info, uint64)
	// Revision returns the current revision.
	// It must change whenever the info changes.
	Revision() uint64
}

var _ Source = (*disco.Registry)(nil)

// An Option configures an Emitter.
type Option func(*Emitter)

// WithHash sets the hash function used by the emitter.
// The default is DefaultHash.
func WithHash(alg string) Option {
	return func(e *Emitter) {
		e.hash = alg
	}
}

// WithNode sets a fixed node instead of deriving it from the first identity.
func WithNode(node string) Option {
	return func(e *Emitter) {
		e.node = node
	}
}

// WithLogger sets the logger used to report rebuilt caps.
func WithLogger(l *zap.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records builds and memo hits in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

type memo struct {
	rev  uint64
	caps Caps
}

// Emitter builds the caps element for a Source, reusing the last result until
// the source revision changes.
// It is safe for concurrent use.
type Emitter struct {
	src     Source
	hash    string
	node    string
	logger  *zap.Logger
	metrics *Metrics

	mu   sync.Mutex
	memo *memo
}

// NewEmitter returns an emitter that advertises the info in src.
func NewEmitter(src Source, opts ...Option) *Emitter {
	e := &Emitter{
		src:    src,
		hash:   DefaultHash,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Caps returns the caps element for the current contents of the source.
func (e *Emitter) Caps() (Caps, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memo != nil {
		if e.src.Revision() == e.memo.rev {
			e.metrics.memoHit()
			return e.memo.caps, nil
		}
		e.memo = nil
	}

	info, rev := e.src.Snapshot()
	c, err := build(info, e.hash, e.node)
	e.metrics.build(e.hash, err)
	if err != nil {
		return Caps{}, err
	}
	e.memo = &memo{rev: rev, caps: c}
	e.logger.Debug("built entity capabilities",
		zap.Uint64("revision", rev),
		zap.String("hash", c.Hash),
		zap.String("node", c.Node),
		zap.String("ver", c.Ver),
	)
	return c, nil
}

// WrapPresence wraps the payload in a presence stanza carrying the current
// caps element.
func (e *Emitter) WrapPresence(p stanza.Presence, payload xml.TokenReader) (xml.TokenReader, error) {
	c, err := e.Caps()
	if err != nil {
		return nil, err
	}
	return c.WrapPresence(p, payload), nil
}
