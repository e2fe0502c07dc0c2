// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"math/big"
)

// AccRewardPrecision is the fixed-point scale of the reward accumulator.
var AccRewardPrecision = big.NewInt(1e12)

// Well known contract addresses.
var (
	FarmAddress   = BytesToAddress([]byte("MasterChef"))
	LedgerAddress = BytesToAddress([]byte("Ledger"))
)
