// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/api/types"
	"github.com/vechain/masterchef/api/utils"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/state"
)

type Accounts struct {
	repo   *chain.Repository
	stater *state.Stater
}

func New(repo *chain.Repository, stater *state.Stater) *Accounts {
	return &Accounts{
		repo,
		stater,
	}
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := chef.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	token, err := chef.ParseTokenID(mux.Vars(req)["token"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "token"))
	}

	ledger := utils.NewRuntime(a.repo, a.stater, a.repo.Head().Time).Ledger()
	balance, err := ledger.BalanceOf(holder, token)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.Balance{
		Holder: holder,
		Token:  token,
		Amount: (*math.HexOrDecimal256)(new(big.Int).Set(balance)),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/balances/{token}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/balances/{token}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
}
