// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/masterchef/chef"
	"github.com/vechain/masterchef/lvldb"
	"github.com/vechain/masterchef/state"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint64
	Addr1  chef.Address
	Bytes1 chef.Bytes32
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(chef.Address{1}, state.NewStater(db).NewState())
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, chef.Bytes32{1})

	value := chef.BytesToAddress([]byte("alice"))
	address.Set(&value)

	got, err := address.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	address.Set(nil)
	got, err = address.Get()
	require.NoError(t, err)
	assert.Equal(t, chef.Address{}, got)

	assert.Equal(t, chef.Address{1}, ctx.Address())
}

func TestAddress_InvalidStorage(t *testing.T) {
	ctx := newContext(t)
	slot := chef.BytesToBytes32([]byte("slot"))
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	addr, err := NewAddress(ctx, slot).Get()
	assert.Error(t, err)
	assert.Equal(t, chef.Address{}, addr)
}

func TestBytes32AndBool(t *testing.T) {
	ctx := newContext(t)

	b := NewBytes32(ctx, chef.Bytes32{2})
	v := chef.BytesToBytes32([]byte("token"))
	b.Set(&v)
	got, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, v, got)
	b.Set(nil)
	got, err = b.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	flag := NewBool(ctx, chef.Bytes32{3})
	on, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, on)
	flag.Set(true)
	on, err = flag.Get()
	require.NoError(t, err)
	assert.True(t, on)
	flag.Set(false)
	on, err = flag.Get()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, chef.Bytes32{1})

	u.Set(big.NewInt(1000))
	value, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), value)

	require.NoError(t, u.Add(big.NewInt(500)))
	value, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500), value)

	require.NoError(t, u.Sub(big.NewInt(200)))
	value, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1300), value)

	assert.ErrorIs(t, u.Sub(big.NewInt(1301)), errUint256Underflow)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	u.Set(max)
	assert.ErrorIs(t, u.Add(big.NewInt(1)), errUint256Overflow)
	value, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, max, value)
}

func TestMapping_StructPointer(t *testing.T) {
	ctx := newContext(t)
	mapping := NewMapping[chef.Bytes32, *TestStruct](ctx, chef.Bytes32{1})
	key := chef.BytesToBytes32([]byte("key"))

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
	exists, err := mapping.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{
		Field1: 100,
		Field2: 200,
		Addr1:  chef.BytesToAddress([]byte("addr")),
		Bytes1: chef.BytesToBytes32([]byte("bytes")),
	}
	require.NoError(t, mapping.Set(key, value))

	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
	exists, err = mapping.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)

	mapping.Delete(key)
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapping_ScalarValue(t *testing.T) {
	ctx := newContext(t)
	mapping := NewMapping[chef.Address, uint64](ctx, chef.Bytes32{1})
	key := chef.BytesToAddress([]byte("k"))

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Zero(t, got)

	require.NoError(t, mapping.Set(key, 42))
	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)
}

func TestMapping_Errors(t *testing.T) {
	ctx := newContext(t)
	basePos := chef.BytesToBytes32([]byte("base"))
	m := NewMapping[chef.Address, chef.Address](ctx, basePos)

	key := chef.BytesToAddress([]byte("k"))
	slot := chef.Blake2b(key.Bytes(), basePos.Bytes())
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	val, err := m.Get(key)
	assert.Error(t, err)
	assert.Equal(t, chef.Address{}, val)

	m2 := NewMapping[chef.Address, chan int](ctx, basePos)
	assert.Error(t, m2.Set(key, make(chan int)))
}

func TestArray(t *testing.T) {
	ctx := newContext(t)
	arr := NewArray[*TestStruct](ctx, chef.BytesToBytes32([]byte("arr")))

	l, err := arr.Len()
	require.NoError(t, err)
	assert.Zero(t, l)

	for i := uint64(0); i < 3; i++ {
		n, err := arr.Push(&TestStruct{Field1: i})
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}

	got, err := arr.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Field1)

	require.NoError(t, arr.Set(1, &TestStruct{Field1: 10}))
	got, err = arr.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.Field1)

	_, err = arr.Get(3)
	assert.Error(t, err)
	assert.Error(t, arr.Set(3, &TestStruct{}))
}
