// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps

import (
	"slices"
	"strings"

	"github.com/cburschka/strophe-cadence/disco"
	"github.com/cburschka/strophe-cadence/disco/info"
)

// VerString returns the verification string of info as described in
// XEP-0115 §5.1.
//
// Identities are sorted by category, type, and language, with ties broken by
// name, and formatted as "category/type/lang/name".
// Features are sorted.
// Every identity and feature is followed by "<", so an empty info results in
// the empty string.
// Field values are not escaped; values that contain "/" or "<" produce
// ambiguous strings.
func VerString(di disco.Info) string {
	idents := slices.Clone(di.Identities)
	slices.SortFunc(idents, info.Compare)
	features := slices.Clone(di.Features)
	slices.Sort(features)

	var b strings.Builder
	for _, ident := range idents {
		b.WriteString(ident.Category)
		b.WriteByte('/')
		b.WriteString(ident.Type)
		b.WriteByte('/')
		b.WriteString(ident.Lang)
		b.WriteByte('/')
		b.WriteString(ident.Name)
		b.WriteByte('<')
	}
	for _, f := range features {
		b.WriteString(f)
		b.WriteByte('<')
	}
	return b.String()
}
