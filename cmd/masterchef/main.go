// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/masterchef/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	txFlags := []cli.Flag{callerFlag, timeFlag, decimalsFlag}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "masterchef",
		Usage:     "Multi-pool staking farm",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: initLogger,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "deploy the farm from a genesis file, or the devnet",
				Flags:  []cli.Flag{genesisFlag, timeFlag},
				Action: initAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the devnet genesis, a template for genesis files",
				Action: genesisAction,
			},
			{
				Name:      "add-pool",
				Usage:     "add a staking pool (admin)",
				ArgsUsage: "<token> <alloc-point>",
				Flags:     txFlags,
				Action:    addPoolAction,
			},
			{
				Name:      "set-alloc",
				Usage:     "update the alloc point of a pool (admin)",
				ArgsUsage: "<pool-id> <alloc-point>",
				Flags:     txFlags,
				Action:    setAllocPointAction,
			},
			{
				Name:      "set-rate",
				Usage:     "update the reward tokens emitted per second (admin)",
				ArgsUsage: "<rate>",
				Flags:     txFlags,
				Action:    setRewardRateAction,
			},
			{
				Name:      "mint",
				Usage:     "credit tokens to a holder (admin)",
				ArgsUsage: "<address> <token> <amount>",
				Flags:     txFlags,
				Action:    mintAction,
			},
			{
				Name:      "deposit",
				Usage:     "stake the pool token",
				ArgsUsage: "<pool-id> <amount>",
				Flags:     txFlags,
				Action:    depositAction,
			},
			{
				Name:      "withdraw",
				Usage:     "unstake the pool token",
				ArgsUsage: "<pool-id> <amount>",
				Flags:     txFlags,
				Action:    withdrawAction,
			},
			{
				Name:      "harvest",
				Usage:     "claim the pending reward",
				ArgsUsage: "<pool-id>",
				Flags:     txFlags,
				Action:    harvestAction,
			},
			{
				Name:      "update-pool",
				Usage:     "settle the reward of a pool",
				ArgsUsage: "<pool-id>",
				Flags:     txFlags,
				Action:    updatePoolAction,
			},
			{
				Name:   "mass-update",
				Usage:  "settle the reward of every pool",
				Flags:  txFlags,
				Action: massUpdatePoolsAction,
			},
			{
				Name:      "clear-position",
				Usage:     "remove an empty position",
				ArgsUsage: "<pool-id>",
				Flags:     txFlags,
				Action:    clearPositionAction,
			},
			{
				Name:   "pools",
				Usage:  "print the farm and its pools",
				Flags:  []cli.Flag{decimalsFlag},
				Action: poolsAction,
			},
			{
				Name:      "pending",
				Usage:     "print a position and its pending reward",
				ArgsUsage: "<pool-id> <address>",
				Flags:     []cli.Flag{timeFlag, decimalsFlag},
				Action:    pendingAction,
			},
			{
				Name:      "balance",
				Usage:     "print the balance of a holder",
				ArgsUsage: "<address> <token>",
				Flags:     []cli.Flag{decimalsFlag},
				Action:    balanceAction,
			},
			{
				Name:  "serve",
				Usage: "serve the read-only API",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					enableMetricsFlag,
					metricsAddrFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
