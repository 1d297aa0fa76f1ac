// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/luxfi/ids"
	"github.com/luxfi/ingresspool/ingresspool"
)

// ErrNotConfigured is returned by loadConfig when a required flag (or its
// INGRESSPOOL_-prefixed environment equivalent) was not supplied.
var ErrNotConfigured = errors.New("ingresspool-node: required config missing: --node-id")

// bindFlags declares the node's config flags on fs and binds them into v,
// the way the teacher's cmd/evm-node binds utils.DatabaseFlags onto its
// cli.App, except via spf13/pflag + viper rather than urfave/cli's native
// flags, so the same binary can additionally read INGRESSPOOL_-prefixed
// environment variables. No config file is read.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.Int("max-count", ingresspool.DefaultConfig().IngressPoolMaxCount, "combined entry count across both sections at which the pool reports exceeding its threshold")
	fs.Int("max-bytes", ingresspool.DefaultConfig().IngressPoolMaxBytes, "combined byte total across both sections at which the pool reports exceeding its threshold")
	fs.String("node-id", "", "this node's identity, used to decide advert emission on MoveToValidated (required)")
	fs.Bool("strict-fault", true, "panic (true) or log-and-abort-changeset (false) when MoveToValidated references an absent unvalidated id")

	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	v.SetEnvPrefix("INGRESSPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

// loadConfig assembles an ingresspool.Config from ctx's flags and v, whose
// keys bindFlags declared (in init). Flags set on the command line
// override environment variables and flag defaults.
func loadConfig(ctx *cli.Context, v *viper.Viper) (ingresspool.Config, error) {
	for _, name := range ctx.FlagNames() {
		if ctx.IsSet(name) {
			v.Set(name, ctx.String(name))
		}
	}

	cfg := ingresspool.DefaultConfig()
	cfg.IngressPoolMaxCount = v.GetInt("max-count")
	cfg.IngressPoolMaxBytes = v.GetInt("max-bytes")
	cfg.StrictChangeSetFaults = v.GetBool("strict-fault")

	raw := v.GetString("node-id")
	if raw == "" {
		return ingresspool.Config{}, ErrNotConfigured
	}
	nodeID, err := ids.NodeIDFromString(raw)
	if err != nil {
		return ingresspool.Config{}, err
	}
	cfg.NodeID = nodeID
	return cfg, nil
}
