// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/masterchef/kv"
)

const storageCacheSize = 4096

// storeName is the kv bucket holding contract storage.
const storeName = kv.Bucket("s")

// Stater is the state creator.
// States created by the same Stater share a cache of committed storage.
type Stater struct {
	store kv.Store
	cache *lru.Cache
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	cache, _ := lru.New(storageCacheSize)
	return &Stater{
		store: storeName.NewStore(db),
		cache: cache,
	}
}

// NewState create a new state object on top of committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

func (s *Stater) getCommitted(key []byte) ([]byte, error) {
	if v, ok := s.cache.Get(string(key)); ok {
		metricStorageCache().AddWithLabel(1, map[string]string{"event": "hit"})
		return v.([]byte), nil
	}
	metricStorageCache().AddWithLabel(1, map[string]string{"event": "miss"})

	v, err := s.store.Get(key)
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, err
		}
		v = nil
	}
	s.cache.Add(string(key), v)
	return v, nil
}
