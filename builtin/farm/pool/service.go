// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/masterchef/builtin/farm/reverts"
	"github.com/vechain/masterchef/builtin/solidity"
	"github.com/vechain/masterchef/chef"
)

var (
	slotPools           = chef.BytesToBytes32([]byte("pools"))
	slotPoolList        = chef.BytesToBytes32([]byte("pool-list"))
	slotRewardToken     = chef.BytesToBytes32([]byte("reward-token"))
	slotRewardRate      = chef.BytesToBytes32([]byte("reward-rate"))
	slotTotalAllocPoint = chef.BytesToBytes32([]byte("total-alloc-point"))
	slotAdmin           = chef.BytesToBytes32([]byte("admin"))
	slotSettleOnChange  = chef.BytesToBytes32([]byte("settle-on-change"))
)

// Service is the pool registry. It owns the pools, their weights and the
// global emission parameters.
type Service struct {
	pools    *solidity.Mapping[ID, *Pool]
	poolList *solidity.Array[chef.TokenID]

	rewardToken     *solidity.Bytes32
	rewardRate      *solidity.Uint256
	totalAllocPoint *solidity.Uint256
	admin           *solidity.Address
	settleOnChange  *solidity.Bool
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:           solidity.NewMapping[ID, *Pool](sctx, slotPools),
		poolList:        solidity.NewArray[chef.TokenID](sctx, slotPoolList),
		rewardToken:     solidity.NewBytes32(sctx, slotRewardToken),
		rewardRate:      solidity.NewUint256(sctx, slotRewardRate),
		totalAllocPoint: solidity.NewUint256(sctx, slotTotalAllocPoint),
		admin:           solidity.NewAddress(sctx, slotAdmin),
		settleOnChange:  solidity.NewBool(sctx, slotSettleOnChange),
	}
}

// Initialize stores the deployment parameters. It can only succeed once.
func (s *Service) Initialize(admin chef.Address, rewardToken chef.TokenID, rewardRate *big.Int, settleOnChange bool) error {
	current, err := s.admin.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.New(reverts.InvalidArgument, "already initialized")
	}
	if admin.IsZero() {
		return reverts.New(reverts.InvalidArgument, "zero admin")
	}
	if rewardToken.IsZero() {
		return reverts.New(reverts.InvalidArgument, "empty reward token")
	}
	if rewardRate == nil || rewardRate.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "negative reward rate")
	}

	s.admin.Set(&admin)
	token := rewardToken.Bytes32()
	s.rewardToken.Set(&token)
	s.rewardRate.Set(rewardRate)
	s.settleOnChange.Set(settleOnChange)
	return nil
}

// Initialized reports whether deployment parameters are stored.
func (s *Service) Initialized() (bool, error) {
	admin, err := s.admin.Get()
	if err != nil {
		return false, err
	}
	return !admin.IsZero(), nil
}

func (s *Service) Admin() (chef.Address, error) {
	return s.admin.Get()
}

func (s *Service) RewardToken() (chef.TokenID, error) {
	b, err := s.rewardToken.Get()
	if err != nil {
		return "", err
	}
	return chef.TokenIDFromBytes32(b), nil
}

func (s *Service) RewardRate() (*big.Int, error) {
	return s.rewardRate.Get()
}

// SetRewardRate replaces the emission rate (reward units per time unit).
func (s *Service) SetRewardRate(rate *big.Int) error {
	if rate == nil || rate.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "negative reward rate")
	}
	if rate.BitLen() > 256 {
		return reverts.New(reverts.ArithmeticFault, "reward rate exceeds 256 bits")
	}
	s.rewardRate.Set(rate)
	return nil
}

func (s *Service) TotalAllocPoint() (*big.Int, error) {
	return s.totalAllocPoint.Get()
}

func (s *Service) SettleOnChange() (bool, error) {
	return s.settleOnChange.Get()
}

// Length returns the number of pools ever added.
func (s *Service) Length() (uint64, error) {
	return s.poolList.Len()
}

// Add appends a pool for the staking token and returns its id.
// Duplicate staking tokens are not rejected.
func (s *Service) Add(token chef.TokenID, allocPoint *big.Int, now uint64) (ID, error) {
	if token.IsZero() {
		return 0, reverts.New(reverts.InvalidArgument, "empty staking token")
	}
	if err := checkAllocPoint(allocPoint); err != nil {
		return 0, err
	}

	length, err := s.poolList.Push(token)
	if err != nil {
		return 0, err
	}
	id := ID(length)

	if err := s.pools.Set(id, &Pool{
		StakingToken:      token,
		AllocPoint:        new(big.Int).Set(allocPoint),
		AccRewardPerShare: new(big.Int),
		LastRewardTime:    now,
	}); err != nil {
		return 0, err
	}
	if err := s.totalAllocPoint.Add(allocPoint); err != nil {
		return 0, reverts.New(reverts.ArithmeticFault, err.Error())
	}
	return id, nil
}

// Get returns the pool with the given id.
func (s *Service) Get(id ID) (*Pool, error) {
	length, err := s.Length()
	if err != nil {
		return nil, err
	}
	if id == 0 || uint64(id) > length {
		return nil, reverts.Newf(reverts.UnknownPool, "pool %d", id)
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, errors.Wrapf(err, "get pool %d", id)
	}
	if p == nil {
		return nil, reverts.Newf(reverts.UnknownPool, "pool %d", id)
	}
	return p, nil
}

// Update persists a pool previously returned by Get.
func (s *Service) Update(id ID, p *Pool) error {
	return s.pools.Set(id, p)
}

// SetAllocPoint changes the weight of a pool, keeping the total in sync.
// It returns the previous weight.
func (s *Service) SetAllocPoint(id ID, allocPoint *big.Int) (*big.Int, error) {
	if err := checkAllocPoint(allocPoint); err != nil {
		return nil, err
	}
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	old := p.AllocPoint

	total, err := s.totalAllocPoint.Get()
	if err != nil {
		return nil, err
	}
	total.Add(total, allocPoint)
	total.Sub(total, old)
	if total.BitLen() > 256 {
		return nil, reverts.New(reverts.ArithmeticFault, "total alloc point exceeds 256 bits")
	}
	s.totalAllocPoint.Set(total)

	p.AllocPoint = new(big.Int).Set(allocPoint)
	if err := s.pools.Set(id, p); err != nil {
		return nil, err
	}
	return old, nil
}

// Tokens returns the staking token of every pool, in id order.
func (s *Service) Tokens() ([]chef.TokenID, error) {
	length, err := s.Length()
	if err != nil {
		return nil, err
	}
	tokens := make([]chef.TokenID, 0, length)
	for i := uint64(0); i < length; i++ {
		token, err := s.poolList.Get(i)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// Iterate calls fn for every pool in id order, stopping at the first error.
func (s *Service) Iterate(fn func(ID, *Pool) error) error {
	length, err := s.Length()
	if err != nil {
		return err
	}
	for i := uint64(1); i <= length; i++ {
		p, err := s.Get(ID(i))
		if err != nil {
			return err
		}
		if err := fn(ID(i), p); err != nil {
			return err
		}
	}
	return nil
}

func checkAllocPoint(allocPoint *big.Int) error {
	if allocPoint == nil || allocPoint.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "negative alloc point")
	}
	if allocPoint.BitLen() > 256 {
		return reverts.New(reverts.ArithmeticFault, "alloc point exceeds 256 bits")
	}
	return nil
}
