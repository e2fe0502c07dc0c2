// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Code classifies a revert.
type Code uint8

const (
	Unauthorized Code = iota + 1
	TokenMismatch
	InsufficientStake
	ArithmeticFault
	UnknownPool
	InvalidArgument
	InsufficientBalance
)

var codeNames = map[Code]string{
	Unauthorized:        "unauthorized",
	TokenMismatch:       "token mismatch",
	InsufficientStake:   "insufficient stake",
	ArithmeticFault:     "arithmetic fault",
	UnknownPool:         "unknown pool",
	InvalidArgument:     "invalid argument",
	InsufficientBalance: "insufficient balance",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Sentinels to match against with errors.Is.
var (
	ErrUnauthorized        = &ErrRevert{code: Unauthorized}
	ErrTokenMismatch       = &ErrRevert{code: TokenMismatch}
	ErrInsufficientStake   = &ErrRevert{code: InsufficientStake}
	ErrArithmeticFault     = &ErrRevert{code: ArithmeticFault}
	ErrUnknownPool         = &ErrRevert{code: UnknownPool}
	ErrInvalidArgument     = &ErrRevert{code: InvalidArgument}
	ErrInsufficientBalance = &ErrRevert{code: InsufficientBalance}
)

// ErrRevert aborts the running operation and discards all of its effects.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func Newf(code Code, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Code() Code {
	return e.code
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.code.String()
	}
	return e.code.String() + ": " + e.message
}

// Is matches reverts of the same code.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.code == e.code
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the code of the revert wrapped in err, or zero.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return 0
}
