// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/masterchef/chef"
)

var devAccounts []chef.Address

func init() {
	for i := 0; i < 5; i++ {
		hash := chef.Blake2b([]byte(fmt.Sprintf("masterchef-dev-account-%d", i)))
		devAccounts = append(devAccounts, chef.BytesToAddress(hash[12:]))
	}
}

// DevAccounts returns pre-funded accounts of the devnet. The first one is the admin.
func DevAccounts() []chef.Address {
	return append([]chef.Address(nil), devAccounts...)
}

// NewDevnet create genesis for a local development farm: reward token CHEF
// emitted at 1e18 per second over two pools.
func NewDevnet() *Genesis {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	amount := func(n int64) *math.HexOrDecimal256 {
		return (*math.HexOrDecimal256)(new(big.Int).Mul(big.NewInt(n), unit))
	}
	weight := func(n int64) *math.HexOrDecimal256 {
		return (*math.HexOrDecimal256)(big.NewInt(n))
	}

	gen := &Genesis{
		Admin:       devAccounts[0],
		RewardToken: "CHEF",
		RewardRate:  amount(1),
		Balances: []Balance{
			{Holder: chef.FarmAddress, Token: "CHEF", Amount: amount(100_000_000)},
		},
		Pools: []Pool{
			{Token: "LP-CHEF-VET", AllocPoint: weight(100)},
			{Token: "LP-VET-USDC", AllocPoint: weight(50)},
		},
	}
	for _, acc := range devAccounts {
		gen.Balances = append(gen.Balances,
			Balance{Holder: acc, Token: "LP-CHEF-VET", Amount: amount(1_000_000)},
			Balance{Holder: acc, Token: "LP-VET-USDC", Amount: amount(1_000_000)},
		)
	}
	return gen
}
