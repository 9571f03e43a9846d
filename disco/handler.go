// Copyright 2017 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package disco

import (
	"encoding/xml"
	"slices"

	"mellium.im/xmlstream"
	"mellium.im/xmpp/mux"
	"mellium.im/xmpp/stanza"

	"github.com/cburschka/strophe-cadence/internal/ns"
)

// Handle returns an option that registers the registry to respond to
// disco#info and disco#items get requests.
func Handle(r *Registry) mux.Option {
	return func(m *mux.ServeMux) {
		mux.IQ(stanza.GetIQ, xml.Name{Space: NSInfo, Local: "query"}, r)(m)
		mux.IQ(stanza.GetIQ, xml.Name{Space: NSItems, Local: "query"}, r)(m)
	}
}

// HandleIQ handles disco info and items requests.
//
// Any node attribute on the query is copied to the response so that queries
// for the "node#ver" of an entity capabilities hash receive the same info.
func (r *Registry) HandleIQ(iq stanza.IQ, t xmlstream.TokenReadEncoder, start *xml.StartElement) error {
	if err := xmlstream.Skip(t); err != nil {
		return err
	}

	var node string
	for _, a := range start.Attr {
		if a.Name.Local == "node" && a.Name.Space == "" {
			node = a.Value
			break
		}
	}

	var payload xml.TokenReader
	switch start.Name.Space {
	case NSItems:
		payload = r.ItemsTokenReader(node)
	default:
		payload = r.InfoTokenReader(node)
	}

	resp := stanza.IQ{
		ID:   iq.ID,
		To:   iq.From,
		From: iq.To,
		Type: stanza.ResultIQ,
	}
	_, err := xmlstream.Copy(t, resp.Wrap(payload))
	return err
}

// InfoTokenReader returns a disco#info query payload describing the current
// contents of the registry.
// Features are sorted and identities are listed in the order they were added.
func (r *Registry) InfoTokenReader(node string) xml.TokenReader {
	info := r.Info()
	slices.Sort(info.Features)

	var payloads []xml.TokenReader
	for _, ident := range info.Identities {
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "category"}, Value: ident.Category},
			{Name: xml.Name{Local: "type"}, Value: ident.Type},
		}
		if ident.Name != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "name"}, Value: ident.Name})
		}
		if ident.Lang != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Space: ns.XML, Local: "lang"}, Value: ident.Lang})
		}
		payloads = append(payloads, xmlstream.Wrap(nil, xml.StartElement{
			Name: xml.Name{Local: "identity"},
			Attr: attrs,
		}))
	}
	for _, feature := range info.Features {
		payloads = append(payloads, xmlstream.Wrap(nil, xml.StartElement{
			Name: xml.Name{Local: "feature"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "var"}, Value: feature}},
		}))
	}

	return xmlstream.Wrap(
		xmlstream.MultiReader(payloads...),
		queryStart(NSInfo, node),
	)
}

// ItemsTokenReader returns a disco#items query payload listing the items in
// the registry.
func (r *Registry) ItemsTokenReader(node string) xml.TokenReader {
	var payloads []xml.TokenReader
	for _, item := range r.Items() {
		attrs := []xml.Attr{{Name: xml.Name{Local: "jid"}, Value: item.JID.String()}}
		if item.Name != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "name"}, Value: item.Name})
		}
		if item.Node != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "node"}, Value: item.Node})
		}
		payloads = append(payloads, xmlstream.Wrap(nil, xml.StartElement{
			Name: xml.Name{Local: "item"},
			Attr: attrs,
		}))
	}

	return xmlstream.Wrap(
		xmlstream.MultiReader(payloads...),
		queryStart(NSItems, node),
	)
}

func queryStart(space, node string) xml.StartElement {
	start := xml.StartElement{Name: xml.Name{Space: space, Local: "query"}}
	if node != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "node"}, Value: node})
	}
	return start
}
