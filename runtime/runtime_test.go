// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/state"
	"github.com/vechain/masterchef/xenv"
)

var (
	admin = chef.BytesToAddress([]byte("admin"))
	alice = chef.BytesToAddress([]byte("alice"))

	rewardToken = chef.MustParseTokenID("CHEF")
	lp          = chef.MustParseTokenID("LP")
)

func newRuntime(t *testing.T) (*runtime.Runtime, *xenv.BlockContext) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	blockCtx := &xenv.BlockContext{}
	return runtime.New(state.NewStater(db).NewState(), blockCtx), blockCtx
}

func mustExec(t *testing.T, rt *runtime.Runtime, tx *runtime.Transaction) *runtime.Receipt {
	receipt, err := rt.ExecuteTransaction(tx)
	require.NoError(t, err)
	require.False(t, receipt.Reverted, receipt.Error)
	return receipt
}

func setup(t *testing.T, rt *runtime.Runtime) {
	mustExec(t, rt, &runtime.Transaction{Origin: admin, Clause: runtime.Clause{
		Op: runtime.OpInitialize, To: admin, Token: rewardToken, Amount: big.NewInt(1000), SettleOnChange: true,
	}})
	mustExec(t, rt, &runtime.Transaction{Origin: admin, Clause: runtime.Clause{
		Op: runtime.OpMint, To: chef.FarmAddress, Token: rewardToken, Amount: big.NewInt(1_000_000),
	}})
	mustExec(t, rt, &runtime.Transaction{Origin: admin, Clause: runtime.Clause{
		Op: runtime.OpMint, To: alice, Token: lp, Amount: big.NewInt(500),
	}})
	receipt := mustExec(t, rt, &runtime.Transaction{Origin: admin, Clause: runtime.Clause{
		Op: runtime.OpAddPool, Token: lp, Amount: big.NewInt(100),
	}})
	assert.Equal(t, "1", receipt.Output.String())
}

func TestDepositAndHarvest(t *testing.T) {
	rt, blockCtx := newRuntime(t)
	setup(t, rt)

	receipt := mustExec(t, rt, &runtime.Transaction{
		Origin:  alice,
		Clause:  runtime.Clause{Op: runtime.OpDeposit, PoolID: 1},
		Payment: &farm.Payment{Token: lp, Amount: big.NewInt(500)},
	})
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, farm.EventDeposited, receipt.Events[0].Name)
	require.Len(t, receipt.Transfers, 1)
	assert.Equal(t, chef.FarmAddress, receipt.Transfers[0].To)

	blockCtx.Number, blockCtx.Time = 1, 10
	receipt = mustExec(t, rt, &runtime.Transaction{
		Origin: alice,
		Clause: runtime.Clause{Op: runtime.OpHarvest, PoolID: 1},
	})
	assert.Equal(t, "10000", receipt.Output.String())
	assert.Equal(t, uint32(1), receipt.Block)
	assert.Equal(t, uint64(10), receipt.Time)

	balance, err := rt.Ledger().BalanceOf(alice, rewardToken)
	require.NoError(t, err)
	assert.Equal(t, "10000", balance.String())
}

func TestRevertedTransaction(t *testing.T) {
	rt, _ := newRuntime(t)
	setup(t, rt)

	// the payment is returned when the deposit reverts
	receipt, err := rt.ExecuteTransaction(&runtime.Transaction{
		Origin:  alice,
		Clause:  runtime.Clause{Op: runtime.OpDeposit, PoolID: 2},
		Payment: &farm.Payment{Token: lp, Amount: big.NewInt(500)},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.Error, "unknown pool")
	assert.Empty(t, receipt.Events)
	assert.Empty(t, receipt.Transfers)

	balance, err := rt.Ledger().BalanceOf(alice, lp)
	require.NoError(t, err)
	assert.Equal(t, "500", balance.String())

	tests := []struct {
		name string
		tx   *runtime.Transaction
		code reverts.Code
	}{
		{"mint by user", &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: runtime.OpMint, To: alice, Token: lp, Amount: big.NewInt(1)}}, reverts.Unauthorized},
		{"payment on harvest", &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: runtime.OpHarvest, PoolID: 1}, Payment: &farm.Payment{Token: lp, Amount: big.NewInt(1)}}, reverts.InvalidArgument},
		{"deposit without payment", &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: runtime.OpDeposit, PoolID: 1}}, reverts.InvalidArgument},
		{"unfunded payment", &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: runtime.OpDeposit, PoolID: 1}, Payment: &farm.Payment{Token: lp, Amount: big.NewInt(501)}}, reverts.InsufficientBalance},
		{"unknown op", &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: "swap"}}, reverts.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := rt.ExecuteTransaction(tt.tx)
			require.NoError(t, err)
			assert.True(t, receipt.Reverted)
			assert.Contains(t, receipt.Error, tt.code.String())
		})
	}
}

func TestTxIDUnique(t *testing.T) {
	rt, _ := newRuntime(t)
	tx := &runtime.Transaction{Origin: alice, Clause: runtime.Clause{Op: runtime.OpMassUpdatePools}}

	r1 := mustExec(t, rt, tx)
	r2 := mustExec(t, rt, tx)
	assert.NotEqual(t, r1.TxID, r2.TxID)
}
