// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs replaces the root logger with one writing JSON into a buffer.
func captureLogs(t *testing.T, verbosity int) *bytes.Buffer {
	buf := new(bytes.Buffer)
	old := ethlog.Root()
	Setup(buf, verbosity, true, false)
	t.Cleanup(func() { ethlog.SetDefault(old) })
	return buf
}

func TestLazyLoggerFollowsRoot(t *testing.T) {
	// created before the handler is installed
	logger := WithContext("pkg", "farm")

	buf := captureLogs(t, LvlInfo)
	logger.With("pool", 1).Info("pool added", "alloc", 100)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pool added", entry["msg"])
	assert.Equal(t, "farm", entry["pkg"])
	assert.Equal(t, float64(1), entry["pool"])
	assert.Equal(t, float64(100), entry["alloc"])
}

func TestVerbosityFilter(t *testing.T) {
	buf := captureLogs(t, LvlWarn)

	logger := WithContext("pkg", "test")
	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscard(t *testing.T) {
	old := ethlog.Root()
	defer ethlog.SetDefault(old)

	Discard()
	Error("nothing happens")
}
