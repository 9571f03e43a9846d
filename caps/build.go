// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps

import (
	"github.com/cockroachdb/errors"

	"github.com/cburschka/strophe-cadence/disco"
	"github.com/cburschka/strophe-cadence/disco/info"
)

// Errors returned when verifying the caps of a remote entity.
var (
	ErrDuplicateIdentity = errors.New("caps: info contains duplicate identities")
	ErrDuplicateFeature  = errors.New("caps: info contains duplicate features")
	ErrVerMismatch       = errors.New("caps: ver does not match info")
)

// Build returns the caps element advertising info.
//
// If alg is empty DefaultHash is used.
// The node is the name of the first identity in info, or DefaultNode if there
// are no identities or the first one has no name.
func Build(info disco.Info, alg string) (Caps, error) {
	return build(info, alg, "")
}

func build(info disco.Info, alg, node string) (Caps, error) {
	if alg == "" {
		alg = DefaultHash
	}
	ver, err := Hash(VerString(info), alg)
	if err != nil {
		return Caps{}, err
	}
	if node == "" {
		node = nodeOf(info)
	}
	return Caps{
		Hash: alg,
		Node: node,
		Ver:  ver,
	}, nil
}

func nodeOf(info disco.Info) string {
	if len(info.Identities) > 0 && info.Identities[0].Name != "" {
		return info.Identities[0].Name
	}
	return DefaultNode
}

// Verify checks that c was generated from the identities and features in di
// as described in XEP-0115 §5.4.
// Info containing the same identity or feature more than once never
// verifies, and caps without a hash attribute (the legacy format) fail with
// ErrUnsupportedAlgorithm.
func Verify(c Caps, di disco.Info) error {
	idents := make(map[info.Identity]struct{}, len(di.Identities))
	for _, ident := range di.Identities {
		if _, ok := idents[ident]; ok {
			return errors.Wrapf(ErrDuplicateIdentity, "%s/%s/%s/%s", ident.Category, ident.Type, ident.Lang, ident.Name)
		}
		idents[ident] = struct{}{}
	}
	features := make(map[string]struct{}, len(di.Features))
	for _, f := range di.Features {
		if _, ok := features[f]; ok {
			return errors.Wrapf(ErrDuplicateFeature, "%s", f)
		}
		features[f] = struct{}{}
	}

	ver, err := Hash(VerString(di), c.Hash)
	if err != nil {
		return err
	}
	if ver != c.Ver {
		return errors.Wrapf(ErrVerMismatch, "%s computed %s, got %s", c.Hash, ver, c.Ver)
	}
	return nil
}
