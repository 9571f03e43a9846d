// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package capscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/cburschka/strophe-cadence/disco"
)

// DefaultKeyPrefix is prepended to every key written by a Redis store.
const DefaultKeyPrefix = "caps:"

// Redis is a Store backed by Redis so that several processes can share one
// cache.
// Info is stored as JSON.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithTTL expires entries after d.
// The default of zero keeps entries forever.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = d
	}
}

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis returns a store using client.
// The lifecycle of the client is managed by the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Redis) key(k Key) string {
	return r.prefix + k.String()
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, k Key) (disco.Info, bool, error) {
	data, err := r.client.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return disco.Info{}, false, nil
	}
	if err != nil {
		return disco.Info{}, false, err
	}
	var info disco.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return disco.Info{}, false, errors.Wrap(err, "capscache: decode stored info")
	}
	return info, true, nil
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, k Key, info disco.Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(k), data, r.ttl).Err()
}
