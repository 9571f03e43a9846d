// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package caps implements XEP-0115: Entity Capabilities.
//
// Entity capabilities let an entity advertise a short hash of its service
// discovery info in every presence it sends.
// Peers that have seen the same hash before can skip the disco#info round
// trip and use a cached copy of the info instead.
package caps // import "github.com/cburschka/strophe-cadence/caps"

import (
	"encoding/xml"
	"io"

	"mellium.im/xmlstream"
	"mellium.im/xmpp/stanza"

	"github.com/cburschka/strophe-cadence/internal/ns"
)

// NS is the namespace of the caps element.
const NS = ns.Caps

// DefaultNode is the node used when no node is configured and the first
// identity has no name.
const DefaultNode = "https://github.com/cburschka/strophe-cadence"

// Caps can be included in a presence stanza or in stream features to advertise
// entity capabilities.
// Node is a string that uniquely identifies your client (eg.
// https://example.com/myclient), Hash is the name of the hash function, and
// Ver is the hash of an Info value.
type Caps struct {
	Hash string `json:"hash" yaml:"hash" toml:"hash"`
	Node string `json:"node" yaml:"node" toml:"node"`
	Ver  string `json:"ver" yaml:"ver" toml:"ver"`
}

// TokenReader satisfies the xmlstream.Marshaler interface.
func (c Caps) TokenReader() xml.TokenReader {
	return xmlstream.Wrap(nil, xml.StartElement{
		Name: xml.Name{Space: NS, Local: "c"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "hash"}, Value: c.Hash},
			{Name: xml.Name{Local: "node"}, Value: c.Node},
			{Name: xml.Name{Local: "ver"}, Value: c.Ver},
		},
	})
}

// WriteXML satisfies the xmlstream.WriterTo interface.
// It is like MarshalXML except it writes tokens to w.
func (c Caps) WriteXML(w xmlstream.TokenWriter) (n int, err error) {
	return xmlstream.Copy(w, c.TokenReader())
}

// MarshalXML implements xml.Marshaler.
func (c Caps) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	_, err := c.WriteXML(e)
	return err
}

// UnmarshalXML implements xml.Unmarshaler.
func (c *Caps) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	data := struct {
		XMLName xml.Name `xml:"http://jabber.org/protocol/caps c"`
		Hash    string   `xml:"hash,attr"`
		Node    string   `xml:"node,attr"`
		Ver     string   `xml:"ver,attr"`
	}{}
	err := d.DecodeElement(&data, &start)
	if err != nil {
		return err
	}

	c.Hash = data.Hash
	c.Node = data.Node
	c.Ver = data.Ver
	return nil
}

// WrapPresence wraps the payload in a presence stanza with the caps element
// added after any existing payload.
// The payload may be nil.
func (c Caps) WrapPresence(p stanza.Presence, payload xml.TokenReader) xml.TokenReader {
	if payload == nil {
		return p.Wrap(c.TokenReader())
	}
	return p.Wrap(xmlstream.MultiReader(payload, c.TokenReader()))
}

// Insert returns a token reader that copies r, adding the caps element as the
// last child of the first element in r.
// All other tokens are passed through unchanged.
func Insert(c Caps, r xml.TokenReader) xml.TokenReader {
	var (
		inner xml.TokenReader
		done  bool
	)
	return xmlstream.ReaderFunc(func() (xml.Token, error) {
		if inner != nil {
			tok, err := inner.Token()
			if err != io.EOF {
				return tok, err
			}
			inner = nil
			done = true
			if tok != nil {
				return tok, nil
			}
		}
		tok, err := r.Token()
		if done || tok == nil {
			return tok, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			return tok, err
		}
		inner = xmlstream.Wrap(
			xmlstream.MultiReader(xmlstream.Inner(r), c.TokenReader()),
			start.Copy(),
		)
		return inner.Token()
	})
}
