// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/masterchef/chain"
	"github.com/vechain/masterchef/runtime"
	"github.com/vechain/masterchef/state"
	"github.com/vechain/masterchef/xenv"
)

// ParseTime parses the time query parameter. Empty means the head time.
// Reward can be previewed in the future but not in the past.
func ParseTime(param string, head chain.Head) (uint64, error) {
	if param == "" {
		return head.Time, nil
	}
	t, err := strconv.ParseUint(param, 0, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "time")
	}
	if t < head.Time {
		return 0, errors.Errorf("time %d is before head time %d", t, head.Time)
	}
	return t, nil
}

// NewRuntime returns a runtime over the committed state, at the given time on top of the head.
// Nothing it does is ever committed.
func NewRuntime(repo *chain.Repository, stater *state.Stater, time uint64) *runtime.Runtime {
	return runtime.New(stater.NewState(), &xenv.BlockContext{
		Number: repo.Head().Number,
		Time:   time,
	})
}
