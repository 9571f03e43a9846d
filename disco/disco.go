// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package disco implements XEP-0030: Service Discovery.
//
// A Registry holds the identities, features, and items an entity advertises.
// The same Registry answers disco#info and disco#items queries and feeds the
// entity capabilities hash computed by package caps, so the two views never
// disagree.
package disco // import "github.com/cburschka/strophe-cadence/disco"

import (
	"cmp"
	"slices"
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/cburschka/strophe-cadence/disco/info"
	"github.com/cburschka/strophe-cadence/internal/ns"
)

// Namespaces used by this package.
const (
	NSInfo  = ns.DiscoInfo
	NSItems = ns.DiscoItem
)

// Item is an entity associated with this one, returned from disco#items
// queries.
type Item struct {
	JID  jid.JID
	Name string
	Node string
}

type itemKey struct {
	jid  string
	node string
}

// Info is a point in time copy of the identities and features held by a
// Registry.
// Identities are listed in the order they were first added.
type Info struct {
	Identities []info.Identity `json:"identities,omitempty" yaml:"identities,omitempty"`
	Features   []string        `json:"features,omitempty" yaml:"features,omitempty"`
}

// A Registry is used to register identities, features, and items supported by
// an entity.
// The zero value is an empty registry ready to use.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	identities map[info.Identity]uint64
	features   map[string]struct{}
	items      map[itemKey]Item
	seq        uint64
	rev        uint64
}

// NewRegistry creates a new registry with the provided identities and
// features.
// The disco#info and disco#items features are always registered.
func NewRegistry(options ...Option) *Registry {
	registry := &Registry{
		features: map[string]struct{}{
			NSInfo:  {},
			NSItems: {},
		},
		identities: make(map[info.Identity]uint64),
	}
	for _, o := range options {
		o(registry)
	}
	return registry
}

// AddIdentity adds an identity to the registry.
// Adding an identity that is already registered does nothing.
func (r *Registry) AddIdentity(category, typ, name, lang string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addIdentity(info.Identity{Category: category, Type: typ, Name: name, Lang: lang})
}

func (r *Registry) addIdentity(ident info.Identity) {
	if r.identities == nil {
		r.identities = make(map[info.Identity]uint64)
	}
	if _, ok := r.identities[ident]; ok {
		return
	}
	r.seq++
	r.identities[ident] = r.seq
	r.rev++
}

// RemoveIdentity removes an identity from the registry if it exists.
func (r *Registry) RemoveIdentity(category, typ, name, lang string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ident := info.Identity{Category: category, Type: typ, Name: name, Lang: lang}
	if _, ok := r.identities[ident]; !ok {
		return
	}
	delete(r.identities, ident)
	r.rev++
}

// AddFeature adds one or more features to the registry.
func (r *Registry) AddFeature(features ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addFeature(features...)
}

func (r *Registry) addFeature(features ...string) {
	if r.features == nil {
		r.features = make(map[string]struct{})
	}
	for _, f := range features {
		if _, ok := r.features[f]; ok {
			continue
		}
		r.features[f] = struct{}{}
		r.rev++
	}
}

// RemoveFeature removes features from the registry.
// Features that are not registered are ignored.
func (r *Registry) RemoveFeature(features ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range features {
		if _, ok := r.features[f]; !ok {
			continue
		}
		delete(r.features, f)
		r.rev++
	}
}

// AddItem adds an item to the registry, replacing any item with the same JID
// and node.
// Items do not contribute to the entity capabilities hash and do not change
// the revision.
func (r *Registry) AddItem(item Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addItem(item)
}

func (r *Registry) addItem(item Item) {
	if r.items == nil {
		r.items = make(map[itemKey]Item)
	}
	r.items[itemKey{jid: item.JID.String(), node: item.Node}] = item
}

// RemoveItem removes the item with the given JID and node if it exists.
func (r *Registry) RemoveItem(j jid.JID, node string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemKey{jid: j.String(), node: node})
}

// Identities returns a copy of the registered identities.
func (r *Registry) Identities() []info.Identity {
	di, _ := r.Snapshot()
	return di.Identities
}

// Features returns a copy of the registered features in no particular order.
func (r *Registry) Features() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	features := make([]string, 0, len(r.features))
	for f := range r.features {
		features = append(features, f)
	}
	return features
}

// Items returns a copy of the registered items sorted by JID and node.
func (r *Registry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]itemKey, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	items := make([]Item, 0, len(keys))
	slices.SortFunc(keys, func(a, b itemKey) int {
		return cmp.Or(cmp.Compare(a.jid, b.jid), cmp.Compare(a.node, b.node))
	})
	for _, k := range keys {
		items = append(items, r.items[k])
	}
	return items
}

// Info returns a copy of the identities and features in the registry.
func (r *Registry) Info() Info {
	di, _ := r.Snapshot()
	return di
}

// Snapshot returns a copy of the identities and features in the registry
// along with the revision they were copied at.
// Both are read under a single lock so the info always matches the revision.
func (r *Registry) Snapshot() (Info, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type seqIdent struct {
		seq   uint64
		ident info.Identity
	}
	ordered := make([]seqIdent, 0, len(r.identities))
	for ident, seq := range r.identities {
		ordered = append(ordered, seqIdent{seq: seq, ident: ident})
	}
	slices.SortFunc(ordered, func(a, b seqIdent) int {
		return cmp.Compare(a.seq, b.seq)
	})

	var di Info
	if len(ordered) > 0 {
		di.Identities = make([]info.Identity, 0, len(ordered))
		for _, o := range ordered {
			di.Identities = append(di.Identities, o.ident)
		}
	}
	if len(r.features) > 0 {
		di.Features = make([]string, 0, len(r.features))
		for f := range r.features {
			di.Features = append(di.Features, f)
		}
	}
	return di, r.rev
}

// Revision returns a counter that increases every time the identities or
// features of the registry change.
func (r *Registry) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rev
}
