// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/api/types"
	"github.com/vechain/masterchef/api/utils"
	"github.com/vechain/masterchef/builtin/farm/pool"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/state"
)

type Pools struct {
	repo   *chain.Repository
	stater *state.Stater
}

func New(repo *chain.Repository, stater *state.Stater) *Pools {
	return &Pools{
		repo,
		stater,
	}
}

func parsePoolID(s string) (pool.ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return pool.ID(id), nil
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	farm := utils.NewRuntime(p.repo, p.stater, p.repo.Head().Time).Farm()
	pools, err := farm.Pools()
	if err != nil {
		return err
	}
	result := make([]*types.Pool, 0, len(pools))
	for i, pl := range pools {
		result = append(result, types.ConvertPool(pool.ID(i+1), pl))
	}
	return utils.WriteJSON(w, result)
}

// handleGetPool responds the pool as stored, or settled at the time parameter when given.
func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	query := req.URL.Query().Get("time")
	t, err := utils.ParseTime(query, p.repo.Head())
	if err != nil {
		return utils.BadRequest(err)
	}

	farm := utils.NewRuntime(p.repo, p.stater, t).Farm()
	var pl *pool.Pool
	if query == "" {
		pl, err = farm.Pool(id)
	} else {
		// settled on a throwaway state
		pl, err = farm.UpdatePool(id)
	}
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, types.ConvertPool(id, pl))
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	user, err := chef.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	t, err := utils.ParseTime(req.URL.Query().Get("time"), p.repo.Head())
	if err != nil {
		return utils.BadRequest(err)
	}

	farm := utils.NewRuntime(p.repo, p.stater, t).Farm()
	pos, err := farm.Position(id, user)
	if err != nil {
		return utils.FromRevert(err)
	}
	pending, err := farm.PendingReward(id, user)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, types.ConvertPosition(id, user, pos, pending, t))
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{id}/positions/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/positions/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
}
