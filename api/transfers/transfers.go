// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/api/types"
	"github.com/vechain/masterchef/api/utils"
	"github.com/vechain/masterchef/eventdb"
)

type Transfers struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, logsLimit uint64) *Transfers {
	return &Transfers{
		db,
		logsLimit,
	}
}

func (t *Transfers) handleFilterTransferLogs(w http.ResponseWriter, req *http.Request) error {
	var filter types.TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(t.limit); err != nil {
		return utils.Forbidden(err)
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &types.Options{}
	}
	if filter.Options.Limit == nil {
		limit := t.limit + 1
		filter.Options.Limit = &limit
	}

	transfers, err := t.db.FilterTransfers(req.Context(), types.ConvertTransferFilter(&filter))
	if err != nil {
		return err
	}
	if len(transfers) > int(t.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", t.limit))
	}

	tLogs := make([]*types.FilteredTransfer, len(transfers))
	for i, trans := range transfers {
		tLogs[i] = types.ConvertTransfer(trans, filter.Options.IncludeIndexes)
	}
	return utils.WriteJSON(w, tLogs)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterTransferLogs))
}
