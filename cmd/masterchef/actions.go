// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/masterchef/api"
	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/co"
	"github.com/vechain/masterchef/cmd/masterchef/httpserver"
	"github.com/vechain/masterchef/genesis"
	"github.com/vechain/masterchef/metrics"
	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/xenv"
)

func requireArgs(ctx *cli.Context, n int) error {
	if ctx.NArg() != n {
		return errors.Errorf("expected %d arguments: %s", n, ctx.Command.ArgsUsage)
	}
	return nil
}

func decimals(ctx *cli.Context) int32 {
	return int32(ctx.Int(decimalsFlag.Name))
}

func withNode(ctx *cli.Context, fn func(n *node) error) error {
	n, err := openInitializedNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()
	return fn(n)
}

// newRuntime returns a runtime over the committed state at time t. Nothing it does is committed.
func (n *node) newRuntime(t uint64) *runtime.Runtime {
	head := n.repo.Head()
	return runtime.New(n.stater.NewState(), &xenv.BlockContext{Number: head.Number, Time: max(t, head.Time)})
}

// send packs the transaction of the caller in a new block.
func (n *node) send(ctx *cli.Context, clause runtime.Clause, payment *farm.Payment) error {
	origin, err := parseCaller(ctx.String(callerFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "caller")
	}
	receipts, err := n.packer.Pack(blockTime(ctx, n.repo.Head()), &runtime.Transaction{
		Origin:  origin,
		Clause:  clause,
		Payment: payment,
	})
	if err != nil {
		return err
	}
	return printReceipt(os.Stdout, receipts[0], decimals(ctx))
}

// printReceipt writes the receipt. A reverted receipt is returned as error.
func printReceipt(w io.Writer, r *runtime.Receipt, decimals int32) error {
	fmt.Fprintf(w, "tx       %v\n", r.TxID)
	fmt.Fprintf(w, "block    %d (time %d)\n", r.Block, r.Time)
	fmt.Fprintf(w, "origin   %v\n", r.Origin)
	if r.Reverted {
		fmt.Fprintln(w, "status   reverted")
		return errors.Errorf("%s reverted: %s", r.Op, r.Error)
	}
	fmt.Fprintln(w, "status   success")
	if r.Output != nil {
		switch r.Op {
		case runtime.OpHarvest:
			fmt.Fprintf(w, "paid     %s\n", formatAmount(r.Output, decimals))
		default:
			fmt.Fprintf(w, "output   %v\n", r.Output)
		}
	}
	for _, ev := range r.Events {
		amount := formatAmount(ev.Amount, decimals)
		switch ev.Name {
		case farm.EventPoolAdded, farm.EventPoolWeightUpdated:
			// alloc point
			amount = ev.Amount.String()
		}
		fmt.Fprintf(w, "event    %s pool=%d user=%v token=%s amount=%s\n", ev.Name, ev.PoolID, ev.User, ev.Token, amount)
	}
	for _, tr := range r.Transfers {
		fmt.Fprintf(w, "transfer %v -> %v %s %s (%s)\n", tr.From, tr.To, formatAmount(tr.Amount, decimals), tr.Token, tr.Memo)
	}
	return nil
}

func initAction(ctx *cli.Context) error {
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	receipts, err := n.packer.PackGenesis(gen)
	if err != nil {
		return err
	}
	fmt.Printf("farm initialized at time %d by %v, %d calls\n", gen.LaunchTime, gen.Admin, len(receipts))
	return nil
}

func genesisAction(*cli.Context) error {
	data, err := genesisTemplate()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func addPoolAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	token, err := chef.ParseTokenID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	allocPoint, err := parseInteger(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpAddPool, Token: token, Amount: allocPoint}, nil)
	})
}

func setAllocPointAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	id, err := parsePoolID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	allocPoint, err := parseInteger(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpSetAllocPoint, PoolID: pool.ID(id), Amount: allocPoint}, nil)
	})
}

func setRewardRateAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	rate, err := parseAmount(ctx.Args().Get(0), decimals(ctx))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpSetRewardRate, Amount: rate}, nil)
	})
}

func mintAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 3); err != nil {
		return err
	}
	to, err := chef.ParseAddress(ctx.Args().Get(0))
	if err != nil {
		return errors.WithMessage(err, "address")
	}
	token, err := chef.ParseTokenID(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx.Args().Get(2), decimals(ctx))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpMint, To: to, Token: token, Amount: amount}, nil)
	})
}

func depositAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	id, err := parsePoolID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx.Args().Get(1), decimals(ctx))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		// pay with the staking token of the pool
		p, err := n.newRuntime(0).Farm().Pool(pool.ID(id))
		if err != nil {
			return err
		}
		payment := &farm.Payment{Token: p.StakingToken, Amount: amount}
		return n.send(ctx, runtime.Clause{Op: runtime.OpDeposit, PoolID: pool.ID(id)}, payment)
	})
}

func withdrawAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	id, err := parsePoolID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx.Args().Get(1), decimals(ctx))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpWithdraw, PoolID: pool.ID(id), Amount: amount}, nil)
	})
}

// poolAction sends an operation taking only the pool id.
func poolAction(op runtime.Op) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := requireArgs(ctx, 1); err != nil {
			return err
		}
		id, err := parsePoolID(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		return withNode(ctx, func(n *node) error {
			return n.send(ctx, runtime.Clause{Op: op, PoolID: pool.ID(id)}, nil)
		})
	}
}

var (
	harvestAction       = poolAction(runtime.OpHarvest)
	updatePoolAction    = poolAction(runtime.OpUpdatePool)
	clearPositionAction = poolAction(runtime.OpClearPosition)
)

func massUpdatePoolsAction(ctx *cli.Context) error {
	return withNode(ctx, func(n *node) error {
		return n.send(ctx, runtime.Clause{Op: runtime.OpMassUpdatePools}, nil)
	})
}

func poolsAction(ctx *cli.Context) error {
	return withNode(ctx, func(n *node) error {
		return printPools(os.Stdout, n, decimals(ctx))
	})
}

func printPools(out io.Writer, n *node, decimals int32) error {
	f := n.newRuntime(0).Farm()
	admin, err := f.Admin()
	if err != nil {
		return err
	}
	rewardToken, err := f.RewardToken()
	if err != nil {
		return err
	}
	rate, err := f.RewardRate()
	if err != nil {
		return err
	}
	total, err := f.TotalAllocPoint()
	if err != nil {
		return err
	}
	settleOnChange, err := f.SettleOnChange()
	if err != nil {
		return err
	}
	pools, err := f.Pools()
	if err != nil {
		return err
	}
	head := n.repo.Head()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "admin\t%v\n", admin)
	fmt.Fprintf(w, "reward\t%s %s/s\n", formatAmount(rate, decimals), rewardToken)
	fmt.Fprintf(w, "total alloc point\t%v\n", total)
	fmt.Fprintf(w, "settle on change\t%v\n", settleOnChange)
	fmt.Fprintf(w, "head\t#%d %v\n", head.Number, time.Unix(int64(head.Time), 0).UTC().Format(time.RFC3339))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOKEN\tALLOC POINT\tACC REWARD PER SHARE\tLAST REWARD TIME")
	for i, p := range pools {
		fmt.Fprintf(w, "%d\t%s\t%v\t%v\t%d\n", i+1, p.StakingToken, p.AllocPoint, p.AccRewardPerShare, p.LastRewardTime)
	}
	return w.Flush()
}

func pendingAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	id, err := parsePoolID(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	user, err := chef.ParseAddress(ctx.Args().Get(1))
	if err != nil {
		return errors.WithMessage(err, "address")
	}
	return withNode(ctx, func(n *node) error {
		t := blockTime(ctx, n.repo.Head())
		f := n.newRuntime(t).Farm()
		pos, err := f.Position(pool.ID(id), user)
		if err != nil {
			return err
		}
		pending, err := f.PendingReward(pool.ID(id), user)
		if err != nil {
			return err
		}
		fmt.Printf("staked   %s\n", formatAmount(pos.Amount, decimals(ctx)))
		fmt.Printf("debt     %s\n", formatAmount(pos.RewardDebt, decimals(ctx)))
		fmt.Printf("pending  %s (time %d)\n", formatAmount(pending, decimals(ctx)), t)
		return nil
	})
}

func balanceAction(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	holder, err := chef.ParseAddress(ctx.Args().Get(0))
	if err != nil {
		return errors.WithMessage(err, "address")
	}
	token, err := chef.ParseTokenID(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return withNode(ctx, func(n *node) error {
		balance, err := n.newRuntime(0).Ledger().BalanceOf(holder, token)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", formatAmount(balance, decimals(ctx)), token)
		return nil
	})
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	n, err := openInitializedNode(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); n.Close() }()

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(n.repo, n.stater, n.eventDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	apiURL, stopAPI, err := httpserver.StartServer(ctx.String(apiAddrFlag.Name), "/", handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stopMetrics, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stopMetrics() }()
		metricsURL = url
	}

	head := n.repo.Head()
	logger.Info("serving", "api", apiURL, "metrics", metricsURL, "head", head.Number, "time", head.Time)

	exitCtx := handleExitSignal()
	var goes co.Goes
	goes.Go(func() {
		clockHousekeeping(exitCtx)
	})
	<-exitCtx.Done()
	goes.Wait()
	return nil
}

// genesisTemplate returns the devnet genesis in yaml, launching now.
func genesisTemplate() ([]byte, error) {
	gen := genesis.NewDevnet()
	gen.LaunchTime = uint64(time.Now().Unix())
	return gen.Encode()
}
