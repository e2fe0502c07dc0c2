// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16, false})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, leveldb := range []*LevelDB{disk, mem} {
		require.NoError(t, leveldb.Put(key, value))

		ret1, err := leveldb.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, ret1)

		has, err := leveldb.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = leveldb.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, leveldb.Delete(key))

		_, err = leveldb.Get(key)
		assert.True(t, leveldb.IsNotFound(err))
	}
}

func TestLevelDBBulk(t *testing.T) {
	var (
		key   = []byte("123")
		value = []byte("456")
	)
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put(key, value))
	assert.Equal(t, 1, bulk.Len())

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err), "bulk must not be visible before Write")

	require.NoError(t, bulk.Write())
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestLevelDBSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v1")))
	snapshot := db.Snapshot()
	defer snapshot.Release()

	require.NoError(t, db.Put([]byte("k"), []byte("v2")))

	got, err := snapshot.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = snapshot.Get([]byte("missing"))
	assert.True(t, snapshot.IsNotFound(err))
}

func TestLevelDBIterateBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("p").NewStore(db)
	require.NoError(t, bucket.Put([]byte("1"), []byte("a")))
	require.NoError(t, bucket.Put([]byte("2"), []byte("b")))
	require.NoError(t, db.Put([]byte("q1"), []byte("other")))

	iter := bucket.Iterate(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}
