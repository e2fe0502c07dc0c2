// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/eventdb"
	"github.com/vechain/masterchef/genesis"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/packer"
	"github.com/vechain/masterchef/state"
)

var errNotInitialized = errors.New("farm not initialized, run the init command first")

func initLogger(ctx *cli.Context) error {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Setup(os.Stderr, ctx.GlobalInt(verbosityFlag.Name), ctx.GlobalBool(jsonLogsFlag.Name), useColor)
	return nil
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	var gen *genesis.Genesis
	if path := ctx.String(genesisFlag.Name); path != "" {
		var err error
		if gen, err = genesis.Load(path); err != nil {
			return nil, err
		}
	} else {
		gen = genesis.NewDevnet()
	}
	if t := ctx.Uint64(timeFlag.Name); t != 0 {
		gen.LaunchTime = t
	}
	if gen.LaunchTime == 0 {
		gen.LaunchTime = uint64(time.Now().Unix())
	}
	return gen, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// node holds the databases of a data dir.
type node struct {
	mainDB  *lvldb.LevelDB
	eventDB *eventdb.EventDB
	repo    *chain.Repository
	stater  *state.Stater
	packer  *packer.Packer
}

func openNode(ctx *cli.Context) (*node, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(dataDir, "main.db")
	mainDB, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dir)
	}
	dir = filepath.Join(dataDir, "events.db")
	eventDB, err := eventdb.New(dir)
	if err != nil {
		mainDB.Close()
		return nil, errors.WithMessagef(err, "open event database [%v]", dir)
	}
	repo, err := chain.NewRepository(mainDB)
	if err != nil {
		eventDB.Close()
		mainDB.Close()
		return nil, err
	}

	logger.Debug("databases opened", "dir", dataDir, "sqlite", eventDB.DriverVersion())
	stater := state.NewStater(mainDB)
	return &node{
		mainDB,
		eventDB,
		repo,
		stater,
		packer.New(repo, stater, eventDB),
	}, nil
}

// openInitializedNode opens the node, failing when genesis was never packed.
func openInitializedNode(ctx *cli.Context) (*node, error) {
	n, err := openNode(ctx)
	if err != nil {
		return nil, err
	}
	if n.repo.Head().Number == 0 {
		n.Close()
		return nil, errNotInitialized
	}
	return n, nil
}

func (n *node) Close() {
	if err := n.eventDB.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	if err := n.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// blockTime returns the time flag, or now. It is never before the head.
func blockTime(ctx *cli.Context, head chain.Head) uint64 {
	if t := ctx.Uint64(timeFlag.Name); t != 0 {
		return t
	}
	return max(uint64(time.Now().Unix()), head.Time)
}

// parseCaller accepts an address or the index of a devnet account.
func parseCaller(s string) (chef.Address, error) {
	if i, err := strconv.Atoi(s); err == nil {
		accounts := genesis.DevAccounts()
		if i < 0 || i >= len(accounts) {
			return chef.Address{}, errors.Errorf("devnet account index %d out of range [0, %d)", i, len(accounts))
		}
		return accounts[i], nil
	}
	return chef.ParseAddress(s)
}

func parsePoolID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "pool id")
	}
	return id, nil
}

// parseInteger parses a plain non-negative integer, like alloc points.
func parseInteger(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid non-negative integer %q", s)
	}
	return v, nil
}

// parseAmount parses a human-readable token amount, "1.5" is 1.5e18 with 18 decimals.
func parseAmount(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.WithMessagef(err, "amount %q", s)
	}
	if d.IsNegative() {
		return nil, errors.Errorf("amount %q is negative", s)
	}
	d = d.Shift(decimals)
	if !d.IsInteger() {
		return nil, errors.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	return d.BigInt(), nil
}

// formatAmount is the inverse of parseAmount.
func formatAmount(v *big.Int, decimals int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.masterchef")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.masterchef")
		}
		return filepath.Join(home, ".org.vechain.masterchef")
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
