// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr chef.Address
	key  chef.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, chef.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage.
// It's not thread-safe.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap // keeps revisions of storage
}

func newState(stater *Stater) *State {
	state := State{stater: stater}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		k := key.(storageKey)
		v, err := stater.getCommitted(k.bytes())
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(v), true, nil
	})
	return &state
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr chef.Address, key chef.Bytes32) (chef.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return chef.Bytes32{}, err
	}
	if len(raw) == 0 {
		return chef.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return chef.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return chef.Blake2b(raw), nil
	}
	return chef.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr chef.Address, key, value chef.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr chef.Address, key chef.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw. Empty raw deletes the slot.
func (s *State) SetRawStorage(addr chef.Address, key chef.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr chef.Address, key chef.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr chef.Address, key chef.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		// the base level is never popped
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		changes[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})
	return newStage(s.stater, changes)
}
