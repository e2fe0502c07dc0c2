// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/masterchef/api/accounts"
	"github.com/vechain/masterchef/api/events"
	"github.com/vechain/masterchef/api/farm"
	"github.com/vechain/masterchef/api/middleware"
	"github.com/vechain/masterchef/api/pools"
	"github.com/vechain/masterchef/api/transfers"
	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/eventdb"
	"github.com/vechain/masterchef/log"
	"github.com/vechain/masterchef/state"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(
	repo *chain.Repository,
	stater *state.Stater,
	eventDB *eventdb.EventDB,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	farm.New(repo, stater).
		Mount(router, "/farm")
	pools.New(repo, stater).
		Mount(router, "/pools")
	accounts.New(repo, stater).
		Mount(router, "/accounts")
	events.New(eventDB, opts.LogsLimit).
		Mount(router, "/logs/event")
	transfers.New(eventDB, opts.LogsLimit).
		Mount(router, "/logs/transfer")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	}
	return handler.ServeHTTP
}
