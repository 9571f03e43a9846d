// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package disco

import (
	"context"
	"encoding/xml"

	"github.com/cockroachdb/errors"
	"mellium.im/xmlstream"
	"mellium.im/xmpp"
	"mellium.im/xmpp/jid"
	"mellium.im/xmpp/stanza"

	"github.com/cburschka/strophe-cadence/disco/info"
)

type infoQuery struct {
	XMLName    xml.Name `xml:"http://jabber.org/protocol/disco#info query"`
	Identities []struct {
		Category string `xml:"category,attr"`
		Type     string `xml:"type,attr"`
		Name     string `xml:"name,attr"`
		Lang     string `xml:"http://www.w3.org/XML/1998/namespace lang,attr"`
	} `xml:"identity"`
	Features []struct {
		Var string `xml:"var,attr"`
	} `xml:"feature"`
}

type itemsQuery struct {
	XMLName xml.Name `xml:"http://jabber.org/protocol/disco#items query"`
	Items   []struct {
		JID  string `xml:"jid,attr"`
		Name string `xml:"name,attr"`
		Node string `xml:"node,attr"`
	} `xml:"item"`
}

// GetInfo requests the identities and features of the entity at to.
// An empty node queries the entity itself; to check an entity capabilities
// hash, query the "node#ver" it advertised.
// It blocks until a response is received.
//
// The info is returned as sent, including any duplicate identities or
// features, so that it can be checked with caps.Verify.
func GetInfo(ctx context.Context, node string, to jid.JID, s *xmpp.Session) (Info, error) {
	return GetInfoIQ(ctx, node, stanza.IQ{To: to}, s)
}

// GetInfoIQ is like GetInfo but it allows you to customize the IQ.
// Changing the type of the provided IQ has no effect.
func GetInfoIQ(ctx context.Context, node string, iq stanza.IQ, s *xmpp.Session) (Info, error) {
	iq.Type = stanza.GetIQ
	var q infoQuery
	err := s.UnmarshalIQElement(ctx, xmlstream.Wrap(nil, queryStart(NSInfo, node)), iq, &q)
	if err != nil {
		return Info{}, err
	}

	var di Info
	for _, ident := range q.Identities {
		di.Identities = append(di.Identities, info.Identity{
			Category: ident.Category,
			Type:     ident.Type,
			Name:     ident.Name,
			Lang:     ident.Lang,
		})
	}
	for _, f := range q.Features {
		di.Features = append(di.Features, f.Var)
	}
	return di, nil
}

// GetItems requests the items associated with the entity at to and an
// optional node.
// It blocks until a response is received.
func GetItems(ctx context.Context, node string, to jid.JID, s *xmpp.Session) ([]Item, error) {
	return GetItemsIQ(ctx, node, stanza.IQ{To: to}, s)
}

// GetItemsIQ is like GetItems but it allows you to customize the IQ.
// Changing the type of the provided IQ has no effect.
func GetItemsIQ(ctx context.Context, node string, iq stanza.IQ, s *xmpp.Session) ([]Item, error) {
	iq.Type = stanza.GetIQ
	var q itemsQuery
	err := s.UnmarshalIQElement(ctx, xmlstream.Wrap(nil, queryStart(NSItems, node)), iq, &q)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, item := range q.Items {
		j, err := jid.Parse(item.JID)
		if err != nil {
			return nil, errors.Wrapf(err, "disco: item %q", item.JID)
		}
		items = append(items, Item{JID: j, Name: item.Name, Node: item.Node})
	}
	return items, nil
}
