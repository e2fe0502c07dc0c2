// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/vechain/masterchef/metrics"

var (
	metricHeadNumber = metrics.LazyLoadGauge("chain_head_number")
	metricHeadTime   = metrics.LazyLoadGauge("chain_head_time")
)
