// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package regfile loads a service discovery registry from a YAML, TOML, or
// JSON file.
//
// A registry file looks like this:
//
//	identities:
//	  - category: client
//	    type: pc
//	    name: Exodus 0.9.1
//	features:
//	  - http://jabber.org/protocol/caps
//	  - http://jabber.org/protocol/muc
//	items:
//	  - jid: conference.example.net
//	    name: Chatrooms
//
// The loaded registry contains exactly what the file lists.
package regfile // import "github.com/cburschka/strophe-cadence/internal/regfile"

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"mellium.im/xmpp/jid"

	"github.com/cburschka/strophe-cadence/disco"
	"github.com/cburschka/strophe-cadence/disco/info"
)

// ErrInvalid is returned for files that parse but describe an invalid
// registry.
var ErrInvalid = errors.New("regfile: invalid registry")

// File is the decoded form of a registry file.
type File struct {
	Identities []info.Identity `mapstructure:"identities"`
	Features   []string        `mapstructure:"features"`
	Items      []Item          `mapstructure:"items"`
}

// Item is an item entry in a registry file.
type Item struct {
	JID  string `mapstructure:"jid"`
	Name string `mapstructure:"name"`
	Node string `mapstructure:"node"`
}

// Read decodes the file at path.
// The format is picked from the file extension.
func Read(path string) (File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return File{}, errors.Wrapf(err, "regfile: read %s", path)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, errors.Wrapf(err, "regfile: decode %s", path)
	}
	return f, nil
}

// Load reads and validates the file at path and returns a registry
// containing its identities, features, and items.
func Load(path string) (*disco.Registry, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	return f.Registry()
}

// Registry validates f and returns a registry containing its contents.
func (f File) Registry() (*disco.Registry, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r := &disco.Registry{}
	for _, ident := range f.Identities {
		r.AddIdentity(ident.Category, ident.Type, ident.Name, ident.Lang)
	}
	r.AddFeature(f.Features...)
	for _, item := range f.Items {
		j, err := jid.Parse(item.JID)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "regfile: item %q", item.JID), ErrInvalid)
		}
		r.AddItem(disco.Item{JID: j, Name: item.Name, Node: item.Node})
	}
	return r, nil
}

// Validate reports fields that would make the verification string ambiguous
// or that XEP-0030 does not allow.
func (f File) Validate() error {
	for i, ident := range f.Identities {
		switch {
		case ident.Category == "" || ident.Type == "":
			return invalidf("identity %d: category and type are required", i)
		case strings.ContainsAny(ident.Category, "/<"):
			return invalidf("identity %d: category %q contains a separator", i, ident.Category)
		case strings.ContainsAny(ident.Type, "/<"):
			return invalidf("identity %d: type %q contains a separator", i, ident.Type)
		case strings.Contains(ident.Name, "<"):
			return invalidf("identity %d: name %q contains a separator", i, ident.Name)
		}
		if ident.Lang != "" {
			if _, err := language.Parse(ident.Lang); err != nil {
				return invalidf("identity %d: lang %q is not a language tag: %v", i, ident.Lang, err)
			}
		}
	}
	for _, feature := range f.Features {
		switch {
		case feature == "":
			return invalidf("empty feature")
		case strings.Contains(feature, "<"):
			return invalidf("feature %q contains a separator", feature)
		}
	}
	return nil
}

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("regfile: "+format, args...), ErrInvalid)
}
