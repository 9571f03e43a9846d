// Copyright 2021 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package caps_test

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mellium.im/xmlstream"
	"mellium.im/xmpp/stanza"

	"github.com/cburschka/strophe-cadence/caps"
)

var (
	_ xmlstream.Marshaler = caps.Caps{}
	_ xmlstream.WriterTo  = caps.Caps{}
	_ xml.Marshaler       = caps.Caps{}
	_ xml.Unmarshaler     = (*caps.Caps)(nil)
)

var golden = caps.Caps{Hash: "sha-1", Node: "https://example.net/client", Ver: exodusHash}

func encode(t *testing.T, r xml.TokenReader) string {
	t.Helper()
	var buf bytes.Buffer
	e := xml.NewEncoder(&buf)
	_, err := xmlstream.Copy(e, r)
	require.NoError(t, err)
	require.NoError(t, e.Flush())
	return buf.String()
}

func TestMarshal(t *testing.T) {
	out, err := xml.Marshal(golden)
	require.NoError(t, err)
	assert.Equal(t,
		`<c xmlns="http://jabber.org/protocol/caps" hash="sha-1" node="https://example.net/client" ver="QgayPKawpkPSDYmwT/WM94uAlu0="></c>`,
		string(out))
}

func TestUnmarshal(t *testing.T) {
	var c caps.Caps
	err := xml.Unmarshal([]byte(`<c xmlns='http://jabber.org/protocol/caps' hash='sha-1' node='https://example.net/client' ver='QgayPKawpkPSDYmwT/WM94uAlu0=' ext='legacy'/>`), &c)
	require.NoError(t, err)
	assert.Equal(t, golden, c)

	err = xml.Unmarshal([]byte(`<c xmlns='urn:example' hash='sha-1'/>`), &c)
	assert.Error(t, err)
}

var insertTests = [...]struct {
	in  string
	out string
}{
	0: {
		in:  `<presence/>`,
		out: `<presence><c xmlns="http://jabber.org/protocol/caps" hash="sha-1" node="https://example.net/client" ver="QgayPKawpkPSDYmwT/WM94uAlu0="></c></presence>`,
	},
	1: {
		in:  `<presence id="1"><show>away</show><status>out</status></presence>`,
		out: `<presence id="1"><show>away</show><status>out</status><c xmlns="http://jabber.org/protocol/caps" hash="sha-1" node="https://example.net/client" ver="QgayPKawpkPSDYmwT/WM94uAlu0="></c></presence>`,
	},
	2: {
		in:  `<presence><x><presence/></x></presence><message/>`,
		out: `<presence><x><presence></presence></x><c xmlns="http://jabber.org/protocol/caps" hash="sha-1" node="https://example.net/client" ver="QgayPKawpkPSDYmwT/WM94uAlu0="></c></presence><message></message>`,
	},
}

func TestInsert(t *testing.T) {
	for i, tc := range insertTests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			d := xml.NewDecoder(strings.NewReader(tc.in))
			assert.Equal(t, tc.out, encode(t, caps.Insert(golden, d)))
		})
	}
}

func TestWrapPresence(t *testing.T) {
	payload := xmlstream.Wrap(
		xmlstream.Token(xml.CharData("away")),
		xml.StartElement{Name: xml.Name{Local: "show"}},
	)
	out := encode(t, golden.WrapPresence(stanza.Presence{ID: "p1"}, payload))

	show := strings.Index(out, "<show>away</show>")
	c := strings.Index(out, `<c xmlns="http://jabber.org/protocol/caps"`)
	require.NotEqual(t, -1, show, out)
	require.NotEqual(t, -1, c, out)
	assert.Less(t, show, c, "caps element must follow the existing payload")
	assert.True(t, strings.HasPrefix(out, "<presence"), out)
}
