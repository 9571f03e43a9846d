// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package disco

import "github.com/cburschka/strophe-cadence/disco/info"

// An Option is used to configure new registries.
type Option func(*Registry)

// Identity adds an identity to the registry.
//
// Identities are described by XEP-0030:
//
//	An entity's identity is broken down into its category (server, client,
//	gateway, directory, etc.) and its particular type within that category
//	(IM server, phone vs. handheld client, MSN gateway vs. AIM gateway, user
//	directory vs. chatroom directory, etc.). This information helps
//	requesting entities to determine the group or "bucket" of services into
//	which the entity is most appropriately placed (e.g., perhaps the entity
//	is shown in a GUI with an appropriate icon).
func Identity(category, typ, name, lang string) Option {
	return func(r *Registry) {
		r.addIdentity(info.Identity{
			Category: category,
			Type:     typ,
			Name:     name,
			Lang:     lang,
		})
	}
}

// Feature adds features to the registry.
//
// Features are described by XEP-0030:
//
//	This information helps requesting entities determine what actions are
//	possible with regard to this entity (registration, search, join, etc.),
//	what protocols the entity supports, and specific feature types of
//	interest, if any (e.g., for the purpose of feature negotiation).
func Feature(features ...string) Option {
	return func(r *Registry) {
		r.addFeature(features...)
	}
}

// Items adds items to the registry.
func Items(items ...Item) Option {
	return func(r *Registry) {
		for _, item := range items {
			r.addItem(item)
		}
	}
}

// Merge adds all identities, features, and items from src into the registry
// the option is applied to.
func Merge(src *Registry) Option {
	return func(dst *Registry) {
		di := src.Info()
		for _, ident := range di.Identities {
			dst.addIdentity(ident)
		}
		dst.addFeature(di.Features...)
		for _, item := range src.Items() {
			dst.addItem(item)
		}
	}
}
