// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/vechain/masterchef/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogramVec("eventdb_criteria_length_bucket", []string{"type"}, []int64{0, 2, 5, 10, 25, 100})
	metricEventQueryParameters = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order", "type"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "event")

	for _, c := range filter.CriteriaSet {
		paramsUsed := make([]string, 0)
		if c.Name != nil {
			paramsUsed = append(paramsUsed, "name")
		}
		if c.PoolID != nil {
			paramsUsed = append(paramsUsed, "pool")
		}
		if c.User != nil {
			paramsUsed = append(paramsUsed, "user")
		}
		if c.Token != nil {
			paramsUsed = append(paramsUsed, "token")
		}
		metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})
	}
}

func metricsHandleCommon(options *Options, order Order, criteriaLen int, queryType string) {
	metricCriteriaLengthBucket().ObserveWithLabels(int64(criteriaLen), map[string]string{"type": queryType})

	if order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc", "type": queryType})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc", "type": queryType})
	}

	if options == nil {
		return
	}
	limit := options.Limit
	if limit > 1000 {
		limit = 1001
	}
	metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": queryType})
}
