// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Stage abstracts changes on the main storage.
type Stage struct {
	stater  *Stater
	changes map[storageKey]rlp.RawValue
}

func newStage(stater *Stater, changes map[storageKey]rlp.RawValue) *Stage {
	return &Stage{stater, changes}
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit commits all changes into the main store atomically.
func (s *Stage) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	bulk := s.stater.store.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}
	for k, v := range s.changes {
		s.stater.cache.Add(string(k.bytes()), []byte(v))
	}
	metricCommittedKeys().Add(int64(len(s.changes)))
	return nil
}
