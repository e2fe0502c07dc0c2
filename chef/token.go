// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"bytes"

	"github.com/pkg/errors"
)

// MaxTokenIDLength is the longest identifier that still fits a single storage word.
const MaxTokenIDLength = 32

// TokenID identifies a fungible token held by the ledger, e.g. "LPT-5f1b2c" or "CHEF".
type TokenID string

// ParseTokenID validates s as a token identifier.
// Identifiers are 1..32 characters of upper case letters, digits and dashes.
func ParseTokenID(s string) (TokenID, error) {
	if len(s) == 0 {
		return "", errors.New("empty token identifier")
	}
	if len(s) > MaxTokenIDLength {
		return "", errors.Errorf("token identifier longer than %d characters", MaxTokenIDLength)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return "", errors.Errorf("invalid character %q in token identifier", c)
	}
	return TokenID(s), nil
}

// MustParseTokenID is ParseTokenID that panics on error.
func MustParseTokenID(s string) TokenID {
	id, err := ParseTokenID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (t TokenID) String() string {
	return string(t)
}

// Bytes returns the raw identifier, it makes TokenID usable as a storage key.
func (t TokenID) Bytes() []byte {
	return []byte(t)
}

func (t TokenID) IsZero() bool {
	return len(t) == 0
}

// Bytes32 packs the identifier into a right padded word.
func (t TokenID) Bytes32() (b Bytes32) {
	copy(b[:], t)
	return
}

// TokenIDFromBytes32 is the inverse of TokenID.Bytes32.
func TokenIDFromBytes32(b Bytes32) TokenID {
	return TokenID(bytes.TrimRight(b[:], "\x00"))
}
