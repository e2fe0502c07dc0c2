// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "errors"

var errFlowCommitted = errors.New("flow already committed")

// IsFlowCommitted the flow can no longer adopt txs.
func IsFlowCommitted(err error) bool {
	return errors.Is(err, errFlowCommitted)
}
