// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/masterchef/chef"
)

type index uint64

func (i index) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(i))
	return b[:]
}

// Array is an append-only dynamic array, similar to a storage array in Solidity.
// The length lives at pos and elements are stored in a mapping keyed by index.
type Array[V any] struct {
	length   *Uint256
	elements *Mapping[index, V]
}

func NewArray[V any](context *Context, pos chef.Bytes32) *Array[V] {
	return &Array[V]{
		length:   NewUint256(context, pos),
		elements: NewMapping[index, V](context, pos),
	}
}

// Len returns the number of elements.
func (a *Array[V]) Len() (uint64, error) {
	l, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return l.Uint64(), nil
}

// Push appends value and returns the new length.
func (a *Array[V]) Push(value V) (uint64, error) {
	l, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.elements.Set(index(l), value); err != nil {
		return 0, err
	}
	a.length.Set(new(big.Int).SetUint64(l + 1))
	return l + 1, nil
}

// Get returns the element at i.
func (a *Array[V]) Get(i uint64) (value V, err error) {
	l, err := a.Len()
	if err != nil {
		return value, err
	}
	if i >= l {
		return value, errors.Errorf("array index %d out of range [0, %d)", i, l)
	}
	return a.elements.Get(index(i))
}

// Set replaces the element at i.
func (a *Array[V]) Set(i uint64, value V) error {
	l, err := a.Len()
	if err != nil {
		return err
	}
	if i >= l {
		return errors.Errorf("array index %d out of range [0, %d)", i, l)
	}
	return a.elements.Set(index(i), value)
}
