// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressMarshalUnmarshal(t *testing.T) {
	original := `"0x00000000000000000000000000006d6173746572"`

	var addr Address
	require.NoError(t, json.Unmarshal([]byte(original), &addr))
	assert.Equal(t, BytesToAddress([]byte("master")), addr)

	out, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, original, string(out))

	out, err = json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, original, string(out))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	noPrefix, err := ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, addr, noPrefix)

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")

	_, err = ParseAddress("0x7567")
	assert.EqualError(t, err, "invalid length")

	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))
	text, err := addr.MarshalText()
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, addr, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("0xzz")))
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("slot"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())

	out, err := json.Marshal(b)
	require.NoError(t, err)
	var decoded Bytes32
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, b, decoded)

	_, err = ParseBytes32("0x01")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
	// pooled hashers must be reset between uses
	assert.Equal(t, Blake2b([]byte("x"), []byte("y")), Blake2b([]byte("x"), []byte("y")))
}

func TestTokenID(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"CHEF", false},
		{"LPT-5F1B2C", false},
		{"", true},
		{"lower", true},
		{"WITH SPACE", true},
		{"A23456789012345678901234567890123", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, err := ParseTokenID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, id.String())
			assert.Equal(t, id, TokenIDFromBytes32(id.Bytes32()))
		})
	}
	assert.Panics(t, func() { MustParseTokenID("bad token") })
}
