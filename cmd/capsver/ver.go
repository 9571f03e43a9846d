// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cburschka/strophe-cadence/caps"
)

// result is the output of the ver command.
type result struct {
	VerString string `json:"ver_string" yaml:"ver_string" toml:"ver_string"`
	Hash      string `json:"hash" yaml:"hash" toml:"hash"`
	Node      string `json:"node" yaml:"node" toml:"node"`
	Ver       string `json:"ver" yaml:"ver" toml:"ver"`
}

func (c *cli) verCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ver",
		Short: "Print the verification string and caps hash of the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.registryPath()
			if err != nil {
				return err
			}
			r, err := c.loadRegistry(path)
			if err != nil {
				return err
			}
			cp, err := c.emitter(r).Caps()
			if err != nil {
				return err
			}
			res := result{
				VerString: caps.VerString(r.Info()),
				Hash:      cp.Hash,
				Node:      cp.Node,
				Ver:       cp.Ver,
			}
			return writeResult(cmd.OutOrStdout(), output, res, cp)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml, toml, xml")
	return cmd
}

func writeResult(w io.Writer, format string, res result, cp caps.Caps) error {
	switch format {
	case "text":
		_, err := fmt.Fprintf(w, "ver_string: %s\nhash: %s\nnode: %s\nver: %s\n",
			res.VerString, res.Hash, res.Node, res.Ver)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(res)
	case "xml":
		data, err := xml.Marshal(cp)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return errors.Newf("capsver: unsupported output format %q (supported: text, json, yaml, toml, xml)", format)
}

func (c *cli) verifyCmd() *cobra.Command {
	var ver string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a received caps hash against the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.registryPath()
			if err != nil {
				return err
			}
			r, err := c.loadRegistry(path)
			if err != nil {
				return err
			}
			cp := caps.Caps{
				Hash: c.v.GetString("hash"),
				Node: c.v.GetString("node"),
				Ver:  ver,
			}
			if err := caps.Verify(cp, r.Info()); err != nil {
				return errors.Wrapf(err, "capsver: verify %s", path)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	cmd.Flags().StringVar(&ver, "ver", "", "base64 encoded ver attribute to check")
	if err := cmd.MarkFlagRequired("ver"); err != nil {
		panic(err)
	}
	return cmd
}
