// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// The capsver command computes the XEP-0115 entity capabilities advertised
// for a service discovery registry file.
//
// Usage:
//
//	capsver ver -r registry.yaml [--output text|json|yaml|toml|xml]
//	capsver verify -r registry.yaml --ver <hash>
//	capsver watch -r registry.yaml
//
// Every global flag can also be set from the environment with the CAPSVER_
// prefix, for example CAPSVER_REGISTRY or CAPSVER_HASH.
package main // import "github.com/cburschka/strophe-cadence/cmd/capsver"

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
