// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package info contains the types that make up a disco#info response.
package info // import "github.com/cburschka/strophe-cadence/disco/info"

import "cmp"

// Identity is a single facet of what kind of entity this is.
//
// All four fields together identify the identity: two identities that differ
// only in Name or Lang are distinct.
type Identity struct {
	Category string `json:"category" yaml:"category" mapstructure:"category"`
	Type     string `json:"type" yaml:"type" mapstructure:"type"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Lang     string `json:"lang,omitempty" yaml:"lang,omitempty" mapstructure:"lang"`
}

// Compare orders identities by category, type, xml:lang, and finally name.
func Compare(a, b Identity) int {
	return cmp.Or(
		cmp.Compare(a.Category, b.Category),
		cmp.Compare(a.Type, b.Type),
		cmp.Compare(a.Lang, b.Lang),
		cmp.Compare(a.Name, b.Name),
	)
}
