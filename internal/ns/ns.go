// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package ns provides namespace constants that are used by many packages.
package ns // import "github.com/cburschka/strophe-cadence/internal/ns"

// List of commonly used namespaces.
const (
	Caps      = "http://jabber.org/protocol/caps"
	DiscoInfo = "http://jabber.org/protocol/disco#info"
	DiscoItem = "http://jabber.org/protocol/disco#items"
	XML       = "http://www.w3.org/XML/1998/namespace"
)
