// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/masterchef/api/types"
	"github.com/vechain/masterchef/api/utils"
	"github.com/vechain/masterchef/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter types.EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(e.limit); err != nil {
		return utils.Forbidden(err)
	}
	if err := filter.Range.Validate(); err != nil {
		return utils.BadRequest(err)
	}
	// reject null element in CriteriaSet, {} is accepted and matches everything
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &types.Options{}
	}
	if filter.Options.Limit == nil {
		// one more than the limit, to detect an oversized result
		limit := e.limit + 1
		filter.Options.Limit = &limit
	}

	events, err := e.db.FilterEvents(req.Context(), types.ConvertEventFilter(&filter))
	if err != nil {
		return err
	}
	if len(events) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	result := make([]*types.FilteredEvent, len(events))
	for i, ev := range events {
		result[i] = types.ConvertEvent(ev, filter.Options.IncludeIndexes)
	}
	return utils.WriteJSON(w, result)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
