// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/builtin/farm"
	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/ledger"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/state"
)

var (
	admin = chef.BytesToAddress([]byte("admin"))
	alice = chef.BytesToAddress([]byte("alice"))
	bob   = chef.BytesToAddress([]byte("bob"))

	rewardToken = chef.MustParseTokenID("CHEF")
	lpA         = chef.MustParseTokenID("LP-A")
	lpB         = chef.MustParseTokenID("LP-B")

	rewardReserve = new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
)

type clock struct{ now uint64 }

func (c *clock) Now() uint64 { return c.now }

type testFarm struct {
	*farm.Farm
	t      *testing.T
	state  *state.State
	ledger *ledger.Ledger
	clock  *clock
}

func newTestFarm(t *testing.T, settleOnChange bool, rate int64) *testFarm {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	l := ledger.New(chef.LedgerAddress, st)
	c := &clock{}
	f := farm.New(chef.FarmAddress, st, c, l)

	require.NoError(t, f.Initialize(admin, rewardToken, big.NewInt(rate), settleOnChange))
	require.NoError(t, l.Mint(chef.FarmAddress, rewardToken, rewardReserve))
	for _, user := range []chef.Address{alice, bob} {
		require.NoError(t, l.Mint(user, lpA, big.NewInt(1_000_000)))
		require.NoError(t, l.Mint(user, lpB, big.NewInt(1_000_000)))
	}
	f.TakeEvents()
	return &testFarm{Farm: f, t: t, state: st, ledger: l, clock: c}
}

func (tf *testFarm) at(now uint64) *testFarm {
	tf.clock.now = now
	return tf
}

func (tf *testFarm) addPool(token chef.TokenID, alloc int64) pool.ID {
	id, err := tf.AddPool(admin, token, big.NewInt(alloc))
	require.NoError(tf.t, err)
	return id
}

// deposit moves the payment into custody first, as the runtime does.
func (tf *testFarm) deposit(user chef.Address, id pool.ID, token chef.TokenID, amount int64) error {
	chk := tf.state.NewCheckpoint()
	if err := tf.ledger.Transfer(user, chef.FarmAddress, token, big.NewInt(amount), "payment"); err != nil {
		tf.state.RevertTo(chk)
		return err
	}
	if err := tf.Deposit(user, id, farm.Payment{Token: token, Amount: big.NewInt(amount)}); err != nil {
		tf.state.RevertTo(chk)
		return err
	}
	return nil
}

func (tf *testFarm) pending(id pool.ID, user chef.Address) string {
	v, err := tf.PendingReward(id, user)
	require.NoError(tf.t, err)
	return v.String()
}

func (tf *testFarm) harvest(user chef.Address, id pool.ID) string {
	v, err := tf.Harvest(user, id)
	require.NoError(tf.t, err)
	return v.String()
}

func (tf *testFarm) balance(user chef.Address, token chef.TokenID) *big.Int {
	v, err := tf.ledger.BalanceOf(user, token)
	require.NoError(tf.t, err)
	return v
}

func (tf *testFarm) acc(id pool.ID) *big.Int {
	p, err := tf.Pool(id)
	require.NoError(tf.t, err)
	return p.AccRewardPerShare
}

func TestConcreteScenario(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)

	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))
	assert.Equal(t, "10000", tf.at(10).pending(id, alice))

	before := tf.balance(alice, rewardToken)
	assert.Equal(t, "10000", tf.harvest(alice, id))
	assert.Equal(t, "0", tf.pending(id, alice))
	assert.Equal(t, "10000", new(big.Int).Sub(tf.balance(alice, rewardToken), before).String())

	events := tf.TakeEvents()
	require.Len(t, events, 3)
	assert.Equal(t, farm.EventPoolAdded, events[0].Name)
	assert.Equal(t, farm.EventDeposited, events[1].Name)
	assert.Equal(t, &farm.Event{Name: farm.EventHarvested, PoolID: id, User: alice, Token: rewardToken, Amount: big.NewInt(10000)}, events[2])
}

func TestNoDoublePayment(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))

	assert.Equal(t, "10000", tf.at(10).harvest(alice, id))
	assert.Equal(t, "0", tf.harvest(alice, id))

	// nothing paid, nothing notified
	events := tf.TakeEvents()
	assert.Equal(t, farm.EventHarvested, events[len(events)-1].Name)
	assert.Len(t, events, 3)
}

func TestDepositNeutrality(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 300))

	// acc is not a multiple of the precision here, the round trip is still exact
	tf.at(7)
	before := tf.pending(id, alice)
	assert.Equal(t, "6999", before)
	require.NoError(t, tf.deposit(alice, id, lpA, 1234))
	require.NoError(t, tf.Withdraw(alice, id, big.NewInt(1234)))
	assert.Equal(t, before, tf.pending(id, alice))

	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, "300", pos.Amount.String())
}

func TestDepositExcludesInflightPayment(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)

	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 100))
	require.NoError(t, tf.at(10).deposit(bob, id, lpA, 900))

	// the first interval belongs to alice only
	assert.Equal(t, "10000", tf.pending(id, alice))
	assert.Equal(t, "0", tf.pending(id, bob))

	// the second is split 1:9
	tf.at(20)
	assert.Equal(t, "11000", tf.pending(id, alice))
	assert.Equal(t, "9000", tf.pending(id, bob))
}

func TestConservation(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	a := tf.addPool(lpA, 100)
	b := tf.addPool(lpB, 300)

	require.NoError(t, tf.at(0).deposit(alice, a, lpA, 333))
	require.NoError(t, tf.at(3).deposit(bob, a, lpA, 777))
	require.NoError(t, tf.at(5).deposit(alice, b, lpB, 1000))
	require.NoError(t, tf.at(11).Withdraw(bob, a, big.NewInt(500)))
	_, err := tf.at(13).Harvest(alice, a)
	require.NoError(t, err)
	require.NoError(t, tf.at(17).deposit(bob, b, lpB, 41))

	tf.at(40)
	paid := new(big.Int).Sub(rewardReserve, tf.balance(chef.FarmAddress, rewardToken))
	total := new(big.Int).Set(paid)
	for _, id := range []pool.ID{a, b} {
		for _, user := range []chef.Address{alice, bob} {
			v, err := tf.PendingReward(id, user)
			require.NoError(t, err)
			total.Add(total, v)
		}
	}
	// pool a emits 250/s from 0, pool b 750/s from 5
	emitted := big.NewInt(250*40 + 750*35)
	assert.True(t, total.Cmp(emitted) <= 0, "distributed %v exceeds emitted %v", total, emitted)
	assert.True(t, new(big.Int).Sub(emitted, total).Cmp(big.NewInt(20)) <= 0, "rounding loss too large: %v of %v", total, emitted)
}

func TestReactivatedPoolConservation(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	a := tf.addPool(lpA, 100)
	b := tf.addPool(lpB, 0)

	require.NoError(t, tf.at(0).deposit(bob, a, lpA, 100))
	require.NoError(t, tf.at(0).deposit(alice, b, lpB, 100))
	require.NoError(t, tf.at(100).SetAllocPoint(admin, b, big.NewInt(100)))

	// pool b earned nothing before t=100
	tf.at(101)
	assert.Equal(t, "100500", tf.pending(a, bob))
	assert.Equal(t, "500", tf.pending(b, alice))
}

func TestPartialWithdrawRounding(t *testing.T) {
	tf := newTestFarm(t, true, 1)
	id := tf.addPool(lpA, 1)

	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 2))
	require.NoError(t, tf.at(0).deposit(bob, id, lpA, 2))

	// acc is 0.75 per staked unit at t=3
	assert.Equal(t, "1", tf.at(3).harvest(alice, id))
	assert.Equal(t, "750000000000", tf.acc(id).String())
	require.NoError(t, tf.Withdraw(alice, id, big.NewInt(1)))
	assert.Equal(t, "0", tf.pending(id, alice))
	require.NoError(t, tf.Withdraw(alice, id, big.NewInt(1)))

	assert.Equal(t, "0", tf.pending(id, alice))
	assert.Equal(t, "0", tf.harvest(alice, id))
	require.NoError(t, tf.ClearPosition(alice, id))

	paid := new(big.Int).Sub(rewardReserve, tf.balance(chef.FarmAddress, rewardToken))
	v, err := tf.PendingReward(id, bob)
	require.NoError(t, err)
	assert.True(t, paid.Add(paid, v).Cmp(big.NewInt(3)) <= 0, "distributed %v exceeds emitted 3", paid)
}

func TestMonotonicAccumulator(t *testing.T) {
	tf := newTestFarm(t, false, 1000)
	id := tf.addPool(lpA, 100)

	last := new(big.Int)
	check := func() {
		acc := tf.acc(id)
		assert.True(t, acc.Cmp(last) >= 0, "acc decreased from %v to %v", last, acc)
		last = acc
	}

	require.NoError(t, tf.at(1).deposit(alice, id, lpA, 10))
	check()
	require.NoError(t, tf.at(5).deposit(bob, id, lpA, 100000))
	check()
	require.NoError(t, tf.at(9).SetRewardRate(admin, big.NewInt(0)))
	check()
	require.NoError(t, tf.at(12).Withdraw(bob, id, big.NewInt(100000)))
	check()
	require.NoError(t, tf.at(15).SetAllocPoint(admin, id, big.NewInt(0)))
	check()
	_, err := tf.at(30).UpdatePool(id)
	require.NoError(t, err)
	check()
	// clock going backwards is a no-op
	_, err = tf.at(20).UpdatePool(id)
	require.NoError(t, err)
	check()
}

func TestWeightConsistency(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	a := tf.addPool(lpA, 100)
	b := tf.addPool(lpB, 300)
	tf.addPool(lpA, 50)

	require.NoError(t, tf.SetAllocPoint(admin, a, big.NewInt(10)))
	require.NoError(t, tf.SetAllocPoint(admin, b, big.NewInt(0)))
	assert.ErrorIs(t, tf.SetAllocPoint(admin, 9, big.NewInt(1)), reverts.ErrUnknownPool)

	pools, err := tf.Pools()
	require.NoError(t, err)
	sum := new(big.Int)
	for _, p := range pools {
		sum.Add(sum, p.AllocPoint)
	}
	total, err := tf.TotalAllocPoint()
	require.NoError(t, err)
	assert.Equal(t, "60", total.String())
	assert.Equal(t, total.String(), sum.String())

	tokens, err := tf.PoolTokens()
	require.NoError(t, err)
	assert.Equal(t, []chef.TokenID{lpA, lpB, lpA}, tokens)
	length, err := tf.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), length)
}

func TestSettleOnChange(t *testing.T) {
	tests := []struct {
		settleOnChange bool
		expected       string
	}{
		// the interval before the new pool keeps the old weights
		{true, "10000"},
		// reference behavior: the whole interval is priced at the new weights
		{false, "5000"},
	}
	for _, tt := range tests {
		tf := newTestFarm(t, tt.settleOnChange, 1000)
		a := tf.addPool(lpA, 100)
		require.NoError(t, tf.at(0).deposit(alice, a, lpA, 500))

		tf.at(10).addPool(lpB, 100)
		assert.Equal(t, tt.expected, tf.pending(a, alice), "settle on change %v", tt.settleOnChange)

		enabled, err := tf.SettleOnChange()
		require.NoError(t, err)
		assert.Equal(t, tt.settleOnChange, enabled)
	}
}

func TestSetRewardRateSettles(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))

	require.NoError(t, tf.at(10).SetRewardRate(admin, big.NewInt(0)))
	assert.Equal(t, "10000", tf.at(20).pending(id, alice))

	rate, err := tf.RewardRate()
	require.NoError(t, err)
	assert.Equal(t, 0, rate.Sign())

	events := tf.TakeEvents()
	last := events[len(events)-1]
	assert.Equal(t, farm.EventRewardRateUpdated, last.Name)
	assert.Equal(t, rewardToken, last.Token)
}

func TestZeroSupplyInterval(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)

	// nobody staked during 0..10, that emission is not distributed
	require.NoError(t, tf.at(10).deposit(alice, id, lpA, 500))
	assert.Equal(t, "5000", tf.at(15).pending(id, alice))
}

func TestAdminGuard(t *testing.T) {
	tf := newTestFarm(t, true, 1000)

	_, err := tf.AddPool(alice, lpA, big.NewInt(100))
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.ErrorIs(t, tf.SetRewardRate(alice, big.NewInt(1)), reverts.ErrUnauthorized)

	id := tf.addPool(lpA, 100)
	assert.ErrorIs(t, tf.SetAllocPoint(bob, id, big.NewInt(1)), reverts.ErrUnauthorized)

	length, err := tf.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), length)

	assert.ErrorIs(t, tf.Initialize(alice, rewardToken, big.NewInt(1), false), reverts.ErrInvalidArgument)
	got, err := tf.Admin()
	require.NoError(t, err)
	assert.Equal(t, admin, got)
}

func TestDepositErrors(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)

	assert.ErrorIs(t, tf.deposit(alice, id, lpB, 10), reverts.ErrTokenMismatch)
	assert.ErrorIs(t, tf.deposit(alice, 7, lpA, 10), reverts.ErrUnknownPool)
	assert.ErrorIs(t, tf.Deposit(alice, id, farm.Payment{Token: lpA, Amount: new(big.Int)}), reverts.ErrInvalidArgument)

	// failed deposits leave no trace
	assert.Equal(t, "1000000", tf.balance(alice, lpA).String())
	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.True(t, pos.IsEmpty())
	assert.Empty(t, tf.TakeEvents()[1:])
}

func TestWithdraw(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))
	tf.TakeEvents()

	tf.at(10)
	assert.ErrorIs(t, tf.Withdraw(alice, id, big.NewInt(501)), reverts.ErrInsufficientStake)
	assert.Empty(t, tf.Events())

	require.NoError(t, tf.Withdraw(alice, id, big.NewInt(500)))
	assert.Equal(t, "1000000", tf.balance(alice, lpA).String())

	// reward is kept after a full exit
	assert.Equal(t, "10000", tf.at(50).pending(id, alice))
	pos, err := tf.Position(id, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Amount.Sign())
	assert.Equal(t, "-10000", pos.RewardDebt.String())

	// zero withdraw is accepted
	require.NoError(t, tf.Withdraw(alice, id, new(big.Int)))

	events := tf.TakeEvents()
	require.Len(t, events, 2)
	assert.Equal(t, farm.EventWithdrawn, events[0].Name)
	assert.Equal(t, "500", events[0].Amount.String())
	assert.Equal(t, "0", events[1].Amount.String())
}

func TestHarvestRevertsWithoutReserve(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))

	// drain the reward reserve
	require.NoError(t, tf.ledger.Transfer(chef.FarmAddress, bob, rewardToken, rewardReserve, "drain"))

	tf.at(10)
	accBefore := tf.acc(id).String()
	_, err := tf.Harvest(alice, id)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	// settlement and debt reset are rolled back
	assert.Equal(t, accBefore, tf.acc(id).String())
	assert.Equal(t, "10000", tf.pending(id, alice))
}

func TestClearPosition(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))

	tf.at(10)
	assert.ErrorIs(t, tf.ClearPosition(alice, id), reverts.ErrInvalidArgument)
	require.NoError(t, tf.Withdraw(alice, id, big.NewInt(500)))
	assert.ErrorIs(t, tf.ClearPosition(alice, id), reverts.ErrInvalidArgument)
	assert.Equal(t, "10000", tf.harvest(alice, id))
	require.NoError(t, tf.ClearPosition(alice, id))

	events := tf.Events()
	assert.Equal(t, farm.EventPositionCleared, events[len(events)-1].Name)
}

func TestMassUpdatePools(t *testing.T) {
	tf := newTestFarm(t, false, 1000)
	a := tf.addPool(lpA, 100)
	b := tf.addPool(lpB, 100)
	require.NoError(t, tf.at(0).deposit(alice, a, lpA, 1000))
	require.NoError(t, tf.at(0).deposit(bob, b, lpB, 1000))

	require.NoError(t, tf.at(10).MassUpdatePools())
	for _, id := range []pool.ID{a, b} {
		p, err := tf.Pool(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), p.LastRewardTime)
		assert.Equal(t, "5000000000000", p.AccRewardPerShare.String())
	}
}

func TestPendingRewardIsReadOnly(t *testing.T) {
	tf := newTestFarm(t, true, 1000)
	id := tf.addPool(lpA, 100)
	require.NoError(t, tf.at(0).deposit(alice, id, lpA, 500))

	assert.Equal(t, "10000", tf.at(10).pending(id, alice))
	p, err := tf.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.LastRewardTime)

	_, err = tf.PendingReward(5, alice)
	assert.ErrorIs(t, err, reverts.ErrUnknownPool)
	assert.Equal(t, "0", tf.pending(id, bob))
}
