// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/runtime"
)

// Genesis is the deployment of a farm.
type Genesis struct {
	LaunchTime  uint64                `yaml:"launchTime"`
	Admin       chef.Address          `yaml:"admin"`
	RewardToken chef.TokenID          `yaml:"rewardToken"`
	RewardRate  *math.HexOrDecimal256 `yaml:"rewardRate"`
	// SettleOnChange defaults to true.
	SettleOnChange *bool     `yaml:"settleOnChange,omitempty"`
	Balances       []Balance `yaml:"balances"`
	Pools          []Pool    `yaml:"pools"`
}

// Balance is a genesis token allocation.
type Balance struct {
	Holder chef.Address          `yaml:"holder"`
	Token  chef.TokenID          `yaml:"token"`
	Amount *math.HexOrDecimal256 `yaml:"amount"`
}

// Pool is a pool created at genesis.
type Pool struct {
	Token      chef.TokenID          `yaml:"token"`
	AllocPoint *math.HexOrDecimal256 `yaml:"allocPoint"`
}

// Load reads the genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Encode returns the yaml form of the genesis.
func (g *Genesis) Encode() ([]byte, error) {
	return yaml.Marshal(g)
}

func (g *Genesis) settleOnChange() bool {
	return g.SettleOnChange == nil || *g.SettleOnChange
}

// Validate checks the values the farm would otherwise reject at build time.
func (g *Genesis) Validate() error {
	if g.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	if _, err := chef.ParseTokenID(string(g.RewardToken)); err != nil {
		return errors.WithMessage(err, "reward token")
	}
	if g.RewardRate == nil || (*big.Int)(g.RewardRate).Sign() < 0 {
		return errors.New("reward rate must be a non-negative integer")
	}
	for i, b := range g.Balances {
		if b.Holder.IsZero() {
			return errors.Errorf("balance %d: holder must be set", i)
		}
		if _, err := chef.ParseTokenID(string(b.Token)); err != nil {
			return errors.WithMessagef(err, "balance %d", i)
		}
		if b.Amount == nil || (*big.Int)(b.Amount).Sign() < 1 {
			return errors.Errorf("%s: balance must be a non-zero integer", b.Holder)
		}
	}
	for i, p := range g.Pools {
		if _, err := chef.ParseTokenID(string(p.Token)); err != nil {
			return errors.WithMessagef(err, "pool %d", i)
		}
		if p.AllocPoint == nil || (*big.Int)(p.AllocPoint).Sign() < 0 {
			return errors.Errorf("pool %d: alloc point must be a non-negative integer", i)
		}
	}
	return nil
}

// Builder returns the builder replaying the deployment: initialize, mint the balances, add the pools.
func (g *Genesis) Builder() *Builder {
	builder := new(Builder).
		Call(&runtime.Transaction{
			Origin: g.Admin,
			Clause: runtime.Clause{
				Op:             runtime.OpInitialize,
				To:             g.Admin,
				Token:          g.RewardToken,
				Amount:         (*big.Int)(g.RewardRate),
				SettleOnChange: g.settleOnChange(),
			},
		})
	for _, b := range g.Balances {
		builder.Call(&runtime.Transaction{
			Origin: g.Admin,
			Clause: runtime.Clause{Op: runtime.OpMint, To: b.Holder, Token: b.Token, Amount: (*big.Int)(b.Amount)},
		})
	}
	for _, p := range g.Pools {
		builder.Call(&runtime.Transaction{
			Origin: g.Admin,
			Clause: runtime.Clause{Op: runtime.OpAddPool, Token: p.Token, Amount: (*big.Int)(p.AllocPoint)},
		})
	}
	return builder
}

// RewardReserve returns the reward tokens granted to the farm itself.
func (g *Genesis) RewardReserve() *big.Int {
	total := new(big.Int)
	for _, b := range g.Balances {
		if b.Holder == chef.FarmAddress && b.Token == g.RewardToken {
			total.Add(total, (*big.Int)(b.Amount))
		}
	}
	return total
}
