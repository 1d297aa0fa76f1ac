// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// ingresspool-node is a thin demonstration binary wiring an ingress pool
// together with its config, logging, metrics, and clock ports. It runs no
// real P2P transport or block-construction loop; see the module's
// Non-goals.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/luxfi/log"
	"github.com/luxfi/node/utils/timer/mockable"

	"github.com/luxfi/ingresspool/ingresspool"
	ipclock "github.com/luxfi/ingresspool/ingresspool/clock"
	"github.com/luxfi/ingresspool/ingresspool/gossip"
	"github.com/luxfi/ingresspool/service"
)

const clientIdentifier = "ingresspool-node"

var (
	globalViper = viper.New()

	app = &cli.App{
		Name:    clientIdentifier,
		Usage:   "standalone ingress message pool demonstration node",
		Version: "1.0.0",
	}
)

func init() {
	app.Action = runNode

	fs := pflag.NewFlagSet(clientIdentifier, pflag.ContinueOnError)
	if err := bindFlags(fs, globalViper); err != nil {
		panic(err)
	}
	app.Flags = pflagsToCliFlags(fs)

	app.Before = func(ctx *cli.Context) error {
		log.SetDefault(log.New())
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runNode(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx, globalViper)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.Root()
	registry := prometheus.NewRegistry()
	metrics := ingresspool.NewMetrics(registry)
	clk := ipclock.NewMockable(&mockable.Clock{})

	pool := ingresspool.New(cfg, clk, logger, metrics)
	svc := service.New(pool)

	advertTracker, err := gossip.NewPeerAdvertTracker(0)
	if err != nil {
		return fmt.Errorf("constructing advert tracker: %w", err)
	}

	logger.Info("ingress pool node initialized",
		"nodeID", cfg.NodeID,
		"maxCount", cfg.IngressPoolMaxCount,
		"maxBytes", cfg.IngressPoolMaxBytes,
		"strictChangeSetFaults", cfg.StrictChangeSetFaults,
	)
	fmt.Printf("ingresspool-node ready: exceedsThreshold=%v trackedAdverts=%d\n",
		svc.ExceedsThreshold(), advertTracker.Len())
	return nil
}

// pflagsToCliFlags adapts a *pflag.FlagSet's declared flags to
// urfave/cli/v2's flag registry, so app.Flags still drives --help output
// even though viper owns the actual value resolution (flags, env, and any
// future config file merge equally through it).
func pflagsToCliFlags(fs *pflag.FlagSet) []cli.Flag {
	var flags []cli.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		flags = append(flags, &cli.StringFlag{
			Name:  f.Name,
			Usage: f.Usage,
			Value: f.DefValue,
		})
	})
	return flags
}
