// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package capscache stores the service discovery info of remote entities
// keyed by their entity capabilities hash.
//
// Info is only stored after it has been verified against the hash it is
// stored under.
package capscache // import "github.com/cburschka/strophe-cadence/capscache"

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/cburschka/strophe-cadence/caps"
	"github.com/cburschka/strophe-cadence/disco"
)

// ErrNoVer is returned when caps without a ver are looked up or learned.
var ErrNoVer = errors.New("capscache: caps has no ver")

// Key identifies a capability set.
// The node is not part of the key: entities running different software with
// the same features share an entry.
type Key struct {
	Hash string
	Ver  string
}

// KeyOf returns the cache key for c.
func KeyOf(c caps.Caps) Key {
	return Key{Hash: c.Hash, Ver: c.Ver}
}

// String returns the key as "hash:ver".
func (k Key) String() string {
	return k.Hash + ":" + k.Ver
}

// Store is the storage backend of a Cache.
type Store interface {
	// Get returns the info stored under k and whether it was found.
	Get(ctx context.Context, k Key) (disco.Info, bool, error)
	// Put stores info under k.
	Put(ctx context.Context, k Key, info disco.Info) error
}

// An Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used to report rejected info.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records lookups and rejections in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// Cache maps entity capabilities hashes to verified service discovery info.
type Cache struct {
	store   Store
	logger  *zap.Logger
	metrics *Metrics
}

// New returns a cache backed by store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns the info previously learned for the hash advertised in c.
func (c *Cache) Lookup(ctx context.Context, cp caps.Caps) (disco.Info, bool, error) {
	if cp.Ver == "" {
		return disco.Info{}, false, ErrNoVer
	}
	info, ok, err := c.store.Get(ctx, KeyOf(cp))
	if err != nil {
		return disco.Info{}, false, errors.Wrapf(err, "capscache: get %s", KeyOf(cp))
	}
	c.metrics.lookup(ok)
	return info, ok, nil
}

// Learn verifies that info hashes to the ver advertised in cp and stores it.
// Info that fails verification is not stored and the verification error is
// returned.
func (c *Cache) Learn(ctx context.Context, cp caps.Caps, info disco.Info) error {
	if cp.Ver == "" {
		return ErrNoVer
	}
	if err := caps.Verify(cp, info); err != nil {
		c.metrics.reject()
		c.logger.Warn("rejected entity capabilities",
			zap.String("hash", cp.Hash),
			zap.String("node", cp.Node),
			zap.String("ver", cp.Ver),
			zap.Error(err),
		)
		return err
	}
	if err := c.store.Put(ctx, KeyOf(cp), info); err != nil {
		return errors.Wrapf(err, "capscache: put %s", KeyOf(cp))
	}
	c.logger.Debug("learned entity capabilities",
		zap.String("hash", cp.Hash),
		zap.String("node", cp.Node),
		zap.String("ver", cp.Ver),
	)
	return nil
}

// FetchFunc requests the service discovery info of the entity that advertised
// caps.
// Node is the "node#ver" string the info should be requested for.
type FetchFunc func(ctx context.Context, node string) (disco.Info, error)

// Resolve returns the info for the hash advertised in cp.
// Info learned earlier is returned without calling fetch.
// Otherwise fetch is called and its result is learned before being returned,
// so info that does not match the advertised hash is never returned.
func (c *Cache) Resolve(ctx context.Context, cp caps.Caps, fetch FetchFunc) (disco.Info, error) {
	di, ok, err := c.Lookup(ctx, cp)
	if err != nil || ok {
		return di, err
	}
	di, err = fetch(ctx, cp.Node+"#"+cp.Ver)
	if err != nil {
		return disco.Info{}, errors.Wrapf(err, "capscache: fetch %s#%s", cp.Node, cp.Ver)
	}
	if err := c.Learn(ctx, cp, di); err != nil {
		return disco.Info{}, err
	}
	return di, nil
}
