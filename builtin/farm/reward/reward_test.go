// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/builtin/solidity"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/state"
)

var (
	admin = chef.BytesToAddress([]byte("admin"))
	lpA   = chef.MustParseTokenID("LP-A")
	lpB   = chef.MustParseTokenID("LP-B")
)

type balances map[chef.TokenID]*big.Int

func (b balances) BalanceOf(holder chef.Address, token chef.TokenID) (*big.Int, error) {
	if holder != chef.FarmAddress {
		return new(big.Int), nil
	}
	if v, ok := b[token]; ok {
		return new(big.Int).Set(v), nil
	}
	return new(big.Int), nil
}

func setup(t *testing.T, rate int64) (*pool.Service, *Service, balances) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pools := pool.New(solidity.NewContext(chef.FarmAddress, state.NewStater(db).NewState()))
	require.NoError(t, pools.Initialize(admin, chef.MustParseTokenID("CHEF"), big.NewInt(rate), true))

	bals := balances{}
	return pools, New(pools, chef.FarmAddress, bals), bals
}

func TestAccrue(t *testing.T) {
	tests := []struct {
		name     string
		acc      int64
		elapsed  uint64
		rate     int64
		alloc    int64
		total    int64
		supply   int64
		expected *big.Int
	}{
		{"single pool", 0, 10, 1000, 100, 100, 500, big.NewInt(20_000_000_000_000)},
		{"half weight", 0, 10, 1000, 50, 100, 500, big.NewInt(10_000_000_000_000)},
		{"floors reward", 0, 1, 1, 1, 3, 1, big.NewInt(0)},
		{"floors share", 7, 1, 1, 1, 1, 3, big.NewInt(7 + 333_333_333_333)},
		{"zero supply", 5, 10, 1000, 100, 100, 0, big.NewInt(5)},
		{"zero total", 5, 10, 1000, 0, 0, 10, big.NewInt(5)},
		{"zero weight", 5, 10, 1000, 0, 100, 10, big.NewInt(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accrue(big.NewInt(tt.acc), tt.elapsed, big.NewInt(tt.rate), big.NewInt(tt.alloc), big.NewInt(tt.total), big.NewInt(tt.supply))
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), acc.String())
		})
	}
}

func TestAccrueOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	_, err := Accrue(new(big.Int), 1<<60, huge, big.NewInt(1), big.NewInt(1), big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticFault)

	_, err = Accrue(new(big.Int), 1, new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1), big.NewInt(1), big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticFault)

	_, err = Accrue(big.NewInt(-1), 1, big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(1))
	assert.ErrorIs(t, err, reverts.ErrArithmeticFault)
}

func TestSettle(t *testing.T) {
	pools, rewards, bals := setup(t, 1000)

	id, err := pools.Add(lpA, big.NewInt(100), 0)
	require.NoError(t, err)

	// no supply: time moves on, accumulator does not
	p, err := rewards.Settle(id, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, p.AccRewardPerShare.Sign())
	assert.Equal(t, uint64(5), p.LastRewardTime)

	bals[lpA] = big.NewInt(500)
	p, err = rewards.Settle(id, 15)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20_000_000_000_000), p.AccRewardPerShare)

	stored, err := pools.Get(id)
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	// not after last reward time: no-op
	p, err = rewards.Settle(id, 15)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20_000_000_000_000), p.AccRewardPerShare)
	p, err = rewards.Settle(id, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), p.LastRewardTime)

	_, err = rewards.Settle(9, 20)
	assert.ErrorIs(t, err, reverts.ErrUnknownPool)
}

func TestSimulateDoesNotPersist(t *testing.T) {
	pools, rewards, bals := setup(t, 1000)

	id, err := pools.Add(lpA, big.NewInt(100), 0)
	require.NoError(t, err)
	bals[lpA] = big.NewInt(1000)

	sim, err := rewards.Simulate(id, 10)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000_000_000_000), sim.AccRewardPerShare)

	stored, err := pools.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AccRewardPerShare.Sign())
	assert.Equal(t, uint64(0), stored.LastRewardTime)
}

func TestSettleExcluding(t *testing.T) {
	pools, rewards, bals := setup(t, 1000)

	id, err := pools.Add(lpA, big.NewInt(100), 0)
	require.NoError(t, err)

	// 100 staked during the interval, 900 arrives with the current call
	bals[lpA] = big.NewInt(1000)
	p, err := rewards.SettleExcluding(id, 10, big.NewInt(900))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100_000_000_000_000), p.AccRewardPerShare)

	_, err = rewards.SettleExcluding(id, 20, big.NewInt(1001))
	assert.ErrorIs(t, err, reverts.ErrArithmeticFault)
}

func TestSettleAll(t *testing.T) {
	pools, rewards, bals := setup(t, 1000)

	a, err := pools.Add(lpA, big.NewInt(100), 0)
	require.NoError(t, err)
	b, err := pools.Add(lpB, big.NewInt(300), 0)
	require.NoError(t, err)
	c, err := pools.Add(lpB, big.NewInt(0), 0)
	require.NoError(t, err)

	bals[lpA] = big.NewInt(250)
	bals[lpB] = big.NewInt(750)
	require.NoError(t, rewards.SettleAll(10))

	pa, err := pools.Get(a)
	require.NoError(t, err)
	pb, err := pools.Get(b)
	require.NoError(t, err)
	pc, err := pools.Get(c)
	require.NoError(t, err)

	// 10 * 1000 * 100/400 = 2500 over 250 staked
	assert.Equal(t, big.NewInt(10_000_000_000_000), pa.AccRewardPerShare)
	// 10 * 1000 * 300/400 = 7500 over 750 staked
	assert.Equal(t, big.NewInt(10_000_000_000_000), pb.AccRewardPerShare)
	assert.Equal(t, uint64(10), pb.LastRewardTime)
	// pools without weight only advance their time
	assert.Equal(t, uint64(10), pc.LastRewardTime)
	assert.Equal(t, 0, pc.AccRewardPerShare.Sign())
}
