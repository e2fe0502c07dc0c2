// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/eventdb"
	"github.com/vechain/masterchef/genesis"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/packer"
	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/state"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
		want     string
		wantErr  bool
	}{
		{"1", 18, "1000000000000000000", false},
		{"1.5", 18, "1500000000000000000", false},
		{"0.000000000000000001", 18, "1", false},
		{"0", 18, "0", false},
		{"1000", 0, "1000", false},
		{"1.25", 2, "125", false},
		{"1.255", 2, "", true},
		{"-1", 18, "", true},
		{"abc", 18, "", true},
		{"", 18, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5", formatAmount(big.NewInt(1500), 3))
	assert.Equal(t, "0.001", formatAmount(big.NewInt(1), 3))
	assert.Equal(t, "-2", formatAmount(big.NewInt(-2000), 3))
	assert.Equal(t, "42", formatAmount(big.NewInt(42), 0))
	assert.Equal(t, "0", formatAmount(nil, 18))

	v, _ := new(big.Int).SetString("6666666666666666666", 10)
	assert.Equal(t, "6.666666666666666666", formatAmount(v, 18))
	back, err := parseAmount(formatAmount(v, 18), 18)
	require.NoError(t, err)
	assert.Equal(t, v.String(), back.String())
}

func TestParseCaller(t *testing.T) {
	accounts := genesis.DevAccounts()

	addr, err := parseCaller("1")
	require.NoError(t, err)
	assert.Equal(t, accounts[1], addr)

	addr, err = parseCaller(accounts[3].String())
	require.NoError(t, err)
	assert.Equal(t, accounts[3], addr)

	_, err = parseCaller("5")
	assert.Error(t, err)
	_, err = parseCaller("-1")
	assert.Error(t, err)
	_, err = parseCaller("0x1234")
	assert.Error(t, err)
}

func TestParseInteger(t *testing.T) {
	v, err := parseInteger("100")
	require.NoError(t, err)
	assert.Equal(t, "100", v.String())

	v, err = parseInteger("0x10")
	require.NoError(t, err)
	assert.Equal(t, "16", v.String())

	_, err = parseInteger("-1")
	assert.Error(t, err)
	_, err = parseInteger("1.5")
	assert.Error(t, err)
}

func newTestNode(t *testing.T) *node {
	mainDB, err := lvldb.NewMem()
	require.NoError(t, err)
	eventDB, err := eventdb.NewMem()
	require.NoError(t, err)
	repo, err := chain.NewRepository(mainDB)
	require.NoError(t, err)
	stater := state.NewStater(mainDB)

	n := &node{mainDB, eventDB, repo, stater, packer.New(repo, stater, eventDB)}
	t.Cleanup(n.Close)

	gen := genesis.NewDevnet()
	gen.LaunchTime = 1700000000
	_, err = n.packer.PackGenesis(gen)
	require.NoError(t, err)
	return n
}

func TestPrintPools(t *testing.T) {
	n := newTestNode(t)

	var buf bytes.Buffer
	require.NoError(t, printPools(&buf, n, 18))
	out := buf.String()
	assert.Contains(t, out, genesis.DevAccounts()[0].String())
	assert.Contains(t, out, "1 CHEF/s")
	assert.Contains(t, out, "2023-11-14T22:13:20Z")
	assert.Contains(t, out, "LP-CHEF-VET")
	assert.Contains(t, out, "LP-VET-USDC")
}

func TestPrintReceipt(t *testing.T) {
	n := newTestNode(t)
	alice := genesis.DevAccounts()[1]
	lp := chef.MustParseTokenID("LP-CHEF-VET")
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	receipts, err := n.packer.Pack(1700000000,
		&runtime.Transaction{
			Origin:  alice,
			Clause:  runtime.Clause{Op: runtime.OpDeposit, PoolID: 1},
			Payment: &farm.Payment{Token: lp, Amount: new(big.Int).Mul(big.NewInt(2), unit)},
		},
		&runtime.Transaction{
			Origin: alice,
			Clause: runtime.Clause{Op: runtime.OpWithdraw, PoolID: 1, Amount: new(big.Int).Mul(big.NewInt(3), unit)},
		},
	)
	require.NoError(t, err)
	require.Len(t, receipts, 2)

	var buf bytes.Buffer
	require.NoError(t, printReceipt(&buf, receipts[0], 18))
	assert.Contains(t, buf.String(), "status   success")
	assert.Contains(t, buf.String(), "event    deposited pool=1")
	assert.Contains(t, buf.String(), "amount=2")
	assert.Contains(t, buf.String(), "2 LP-CHEF-VET (payment)")

	buf.Reset()
	err = printReceipt(&buf, receipts[1], 18)
	assert.ErrorContains(t, err, "withdraw reverted")
	assert.Contains(t, buf.String(), "status   reverted")
}
