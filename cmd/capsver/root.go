// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cburschka/strophe-cadence/caps"
	"github.com/cburschka/strophe-cadence/disco"
	"github.com/cburschka/strophe-cadence/internal/regfile"
)

const envPrefix = "CAPSVER"

var errNoRegistry = errors.New("capsver: no registry file given, set --registry or CAPSVER_REGISTRY")

type cli struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{
		v:      viper.New(),
		logger: zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:   "capsver",
		Short: "Compute XEP-0115 entity capabilities for a registry file",
		Long: `capsver computes the entity capabilities (XEP-0115) that an entity
advertises for the identities and features listed in a registry file.

Registry files may be YAML, TOML, or JSON and contain "identities",
"features", and "items" keys.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.logger = newLogger(cmd.ErrOrStderr(), c.v.GetInt("verbose"))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("registry", "r", "", "registry file (yaml, toml, or json)")
	flags.String("hash", caps.DefaultHash, "hash function name from the IANA registry")
	flags.String("node", "", "node to advertise (default: name of the first identity)")
	flags.CountP("verbose", "v", "increase log verbosity (-v, -vv)")
	if err := c.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	cmd.AddCommand(c.verCmd(), c.verifyCmd(), c.watchCmd())
	return cmd
}

func newLogger(w io.Writer, verbosity int) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func (c *cli) registryPath() (string, error) {
	path := c.v.GetString("registry")
	if path == "" {
		return "", errNoRegistry
	}
	return path, nil
}

func (c *cli) loadRegistry(path string) (*disco.Registry, error) {
	r, err := regfile.Load(path)
	if err != nil {
		return nil, err
	}
	info := r.Info()
	c.logger.Info("loaded registry",
		zap.String("path", path),
		zap.Int("identities", len(info.Identities)),
		zap.Int("features", len(info.Features)),
	)
	return r, nil
}

func (c *cli) emitter(r *disco.Registry) *caps.Emitter {
	return caps.NewEmitter(r,
		caps.WithHash(c.v.GetString("hash")),
		caps.WithNode(c.v.GetString("node")),
		caps.WithLogger(c.logger),
	)
}
