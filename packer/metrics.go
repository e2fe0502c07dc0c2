// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/vechain/masterchef/metrics"

var (
	metricTransactionCounter = metrics.LazyLoadCounterVec("packer_transaction_count", []string{"reverted"})
	metricBlockTxs           = metrics.LazyLoadGauge("packer_block_txs")
)
