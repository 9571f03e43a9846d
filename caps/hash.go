// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps

import (
	"crypto/sha1" // #nosec G505
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// DefaultHash is the hash function used when none is specified.
// Every XEP-0115 implementation must support it.
const DefaultHash = "sha-1"

// ErrUnsupportedAlgorithm is returned when a hash function name is not
// registered.
var ErrUnsupportedAlgorithm = errors.New("caps: unsupported hash algorithm")

var (
	hashMu sync.RWMutex
	hashes = map[string]func() hash.Hash{
		"sha-1":       sha1.New,
		"sha-224":     sha256.New224,
		"sha-256":     sha256.New,
		"sha-384":     sha512.New384,
		"sha-512":     sha512.New,
		"sha3-256":    sha3.New256,
		"sha3-512":    sha3.New512,
		"blake2b-256": mustBlake2b(blake2b.New256),
		"blake2b-512": mustBlake2b(blake2b.New512),
	}
)

// unkeyed BLAKE2b never fails to initialize.
func mustBlake2b(f func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := f(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// RegisterHash makes a hash function available under the given name from the
// IANA Hash Function Textual Names registry.
// Registering a name a second time replaces the earlier function.
func RegisterHash(name string, f func() hash.Hash) {
	hashMu.Lock()
	defer hashMu.Unlock()
	hashes[name] = f
}

// Algorithms returns the sorted names of all registered hash functions.
func Algorithms() []string {
	hashMu.RLock()
	defer hashMu.RUnlock()
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Hash hashes the UTF-8 encoded verification string with the named hash
// function and returns the digest encoded as padded standard base64.
func Hash(ver, alg string) (string, error) {
	hashMu.RLock()
	f, ok := hashes[alg]
	hashMu.RUnlock()
	if !ok {
		return "", errors.Mark(errors.Newf("caps: unsupported hash algorithm %q", alg), ErrUnsupportedAlgorithm)
	}

	h := f()
	/* #nosec */
	h.Write([]byte(ver))
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
