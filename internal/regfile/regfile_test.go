// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package regfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cburschka/strophe-cadence/caps"
	"github.com/cburschka/strophe-cadence/disco/info"
	"github.com/cburschka/strophe-cadence/internal/regfile"
)

const exodusYAML = `identities:
  - category: client
    type: pc
    name: Exodus 0.9.1
features:
  - http://jabber.org/protocol/muc
  - http://jabber.org/protocol/disco#items
  - http://jabber.org/protocol/disco#info
  - http://jabber.org/protocol/caps
items:
  - jid: conference.example.net
    name: Chatrooms
`

const exodusTOML = `features = [
  "http://jabber.org/protocol/caps",
  "http://jabber.org/protocol/disco#info",
  "http://jabber.org/protocol/disco#items",
  "http://jabber.org/protocol/muc",
]

[[identities]]
category = "client"
type = "pc"
name = "Exodus 0.9.1"
`

const exodusJSON = `{
  "identities": [{"category": "client", "type": "pc", "name": "Exodus 0.9.1"}],
  "features": [
    "http://jabber.org/protocol/caps",
    "http://jabber.org/protocol/disco#info",
    "http://jabber.org/protocol/disco#items",
    "http://jabber.org/protocol/muc"
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFormats(t *testing.T) {
	for name, content := range map[string]string{
		"registry.yaml": exodusYAML,
		"registry.toml": exodusTOML,
		"registry.json": exodusJSON,
	} {
		t.Run(name, func(t *testing.T) {
			r, err := regfile.Load(writeFile(t, name, content))
			require.NoError(t, err)

			c, err := caps.Build(r.Info(), caps.DefaultHash)
			require.NoError(t, err)
			assert.Equal(t, "QgayPKawpkPSDYmwT/WM94uAlu0=", c.Ver)
			assert.Equal(t, "Exodus 0.9.1", c.Node)
		})
	}
}

func TestLoadItems(t *testing.T) {
	r, err := regfile.Load(writeFile(t, "registry.yml", exodusYAML))
	require.NoError(t, err)
	items := r.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "conference.example.net", items[0].JID.String())
	assert.Equal(t, "Chatrooms", items[0].Name)
}

func TestLoadMissing(t *testing.T) {
	_, err := regfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, f := range map[string]regfile.File{
		"no category":    {Identities: []info.Identity{{Type: "pc"}}},
		"slash category": {Identities: []info.Identity{{Category: "client/x", Type: "pc"}}},
		"slash type":     {Identities: []info.Identity{{Category: "client", Type: "p/c"}}},
		"separator name": {Identities: []info.Identity{{Category: "client", Type: "pc", Name: "a<b"}}},
		"bad lang":       {Identities: []info.Identity{{Category: "client", Type: "pc", Lang: "not a tag"}}},
		"empty feature":  {Features: []string{""}},
		"separator feat": {Features: []string{"urn:a<urn:b"}},
		"bad item jid":   {Items: []regfile.Item{{JID: "@"}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.Registry()
			require.Error(t, err)
			assert.True(t, errors.Is(err, regfile.ErrInvalid), "got %v", err)
		})
	}

	valid := regfile.File{
		Identities: []info.Identity{{Category: "client", Type: "pc", Name: "Psi/Ψ", Lang: "el"}},
		Features:   []string{"urn:xmpp:ping"},
	}
	assert.NoError(t, valid.Validate())
}
