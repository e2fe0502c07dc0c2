// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import "github.com/vechain/masterchef/metrics"

var (
	metricOperationCount = metrics.LazyLoadCounterVec("farm_operation_count", []string{"op", "result"})
	metricEventCount     = metrics.LazyLoadCounterVec("farm_event_count", []string{"name"})
)

func operationResult(err error) string {
	if err == nil {
		return "success"
	}
	return "reverted"
}
