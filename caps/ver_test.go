// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cburschka/strophe-cadence/caps"
	"github.com/cburschka/strophe-cadence/disco"
	"github.com/cburschka/strophe-cadence/disco/info"
)

const (
	exodusVer  = `client/pc//Exodus 0.9.1<http://jabber.org/protocol/caps<http://jabber.org/protocol/disco#info<http://jabber.org/protocol/disco#items<http://jabber.org/protocol/muc<`
	exodusHash = `QgayPKawpkPSDYmwT/WM94uAlu0=`
)

func exodus() *disco.Registry {
	r := disco.NewRegistry()
	r.AddIdentity("client", "pc", "Exodus 0.9.1", "")
	r.AddFeature(
		"http://jabber.org/protocol/caps",
		"http://jabber.org/protocol/disco#info",
		"http://jabber.org/protocol/disco#items",
		"http://jabber.org/protocol/muc",
	)
	return r
}

var verTests = [...]struct {
	info disco.Info
	ver  string
}{
	0: {},
	1: {
		info: disco.Info{Features: []string{"urn:b", "urn:a"}},
		ver:  "urn:a<urn:b<",
	},
	2: {
		info: disco.Info{Identities: []info.Identity{{Category: "client", Type: "pc"}}},
		ver:  "client/pc//<",
	},
	3: {
		info: disco.Info{
			Identities: []info.Identity{
				{Category: "client", Type: "pc", Name: "Psi 0.11", Lang: "el"},
				{Category: "client", Type: "pc", Name: "Ψ 0.11", Lang: "en"},
			},
			Features: []string{"http://jabber.org/protocol/muc"},
		},
		ver: "client/pc/el/Psi 0.11<client/pc/en/Ψ 0.11<http://jabber.org/protocol/muc<",
	},
	4: {
		info: disco.Info{
			Identities: []info.Identity{
				{Category: "client", Type: "pc", Name: "b"},
				{Category: "automation", Type: "bot"},
				{Category: "client", Type: "pc", Name: "a"},
				{Category: "client", Type: "pc", Name: "0", Lang: "en"},
			},
		},
		ver: "automation/bot//<client/pc//a<client/pc//b<client/pc/en/0<",
	},
}

func TestVerString(t *testing.T) {
	for i, tc := range verTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert.Equal(t, tc.ver, caps.VerString(tc.info))
		})
	}
}

func TestVerStringGolden(t *testing.T) {
	ver := caps.VerString(exodus().Info())
	require.Equal(t, exodusVer, ver)

	digest, err := caps.Hash(ver, "sha-1")
	require.NoError(t, err)
	assert.Equal(t, exodusHash, digest)
}

func TestVerStringDoesNotMutate(t *testing.T) {
	di := disco.Info{
		Identities: []info.Identity{{Category: "z", Type: "z"}, {Category: "a", Type: "a"}},
		Features:   []string{"z", "a"},
	}
	caps.VerString(di)
	assert.Equal(t, "z", di.Identities[0].Category)
	assert.Equal(t, []string{"z", "a"}, di.Features)
}

func TestIdempotentAdd(t *testing.T) {
	r := exodus()
	before := caps.VerString(r.Info())
	r.AddFeature("http://jabber.org/protocol/muc")
	r.AddIdentity("client", "pc", "Exodus 0.9.1", "")
	assert.Equal(t, before, caps.VerString(r.Info()))
}

func TestRemoveRestores(t *testing.T) {
	r := exodus()
	before := caps.VerString(r.Info())
	r.AddFeature("urn:xmpp:ping")
	require.NotEqual(t, before, caps.VerString(r.Info()))
	r.RemoveFeature("urn:xmpp:ping")
	assert.Equal(t, before, caps.VerString(r.Info()))
}

func TestOrderIndependence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	type op func(*disco.Registry)

	properties.Property("permuted mutations give the same verification string", prop.ForAll(
		func(features, names, langs []string, seed int64) bool {
			var ops []op
			for _, f := range features {
				ops = append(ops, func(r *disco.Registry) { r.AddFeature(f) })
			}
			for i, name := range names {
				typ := "pc"
				if i%2 == 1 {
					typ = "bot"
				}
				lang := ""
				if len(langs) > 0 {
					lang = langs[i%len(langs)]
				}
				ops = append(ops, func(r *disco.Registry) { r.AddIdentity("client", typ, name, lang) })
			}

			forward := &disco.Registry{}
			for _, o := range ops {
				o(forward)
			}

			shuffled := append([]op(nil), ops...)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			permuted := &disco.Registry{}
			for _, o := range shuffled {
				o(permuted)
			}
			// Applying everything twice must not change anything either.
			for _, o := range ops {
				o(permuted)
			}

			return caps.VerString(forward.Info()) == caps.VerString(permuted.Info())
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
