// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/masterchef/api/types"
	"github.com/vechain/masterchef/api/utils"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/state"
)

type Farm struct {
	repo   *chain.Repository
	stater *state.Stater
}

func New(repo *chain.Repository, stater *state.Stater) *Farm {
	return &Farm{
		repo,
		stater,
	}
}

func (f *Farm) handleGetFarm(w http.ResponseWriter, _ *http.Request) error {
	head := f.repo.Head()
	farm := utils.NewRuntime(f.repo, f.stater, head.Time).Farm()

	admin, err := farm.Admin()
	if err != nil {
		return err
	}
	rewardToken, err := farm.RewardToken()
	if err != nil {
		return err
	}
	rewardRate, err := farm.RewardRate()
	if err != nil {
		return err
	}
	totalAllocPoint, err := farm.TotalAllocPoint()
	if err != nil {
		return err
	}
	settleOnChange, err := farm.SettleOnChange()
	if err != nil {
		return err
	}
	poolLength, err := farm.PoolLength()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.Farm{
		Admin:           admin,
		RewardToken:     rewardToken,
		RewardRate:      (*math.HexOrDecimal256)(new(big.Int).Set(rewardRate)),
		TotalAllocPoint: (*math.HexOrDecimal256)(new(big.Int).Set(totalAllocPoint)),
		SettleOnChange:  settleOnChange,
		PoolLength:      poolLength,
		Head:            types.ConvertHead(head),
	})
}

func (f *Farm) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, types.ConvertHead(f.repo.Head()))
}

func (f *Farm) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /farm").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarm))
	sub.Path("/head").
		Methods(http.MethodGet).
		Name("GET /farm/head").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetHead))
}
