package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testKey uint32

func TestMap(t *testing.T) {
	var m Map[testKey, int]
	require.Equal(t, 0, m.Get(100), "unwritten keys read as the zero value")
	require.Equal(t, 0, m.Len())

	m.Set(3, 30)
	require.Equal(t, 30, m.Get(3))
	require.Equal(t, 4, m.Len())
	require.Equal(t, 0, m.Get(2), "intermediate keys read as the zero value")

	*m.GetPtr(10) = 42
	require.Equal(t, 42, m.Get(10))
	require.Equal(t, 11, m.Len())

	m.Clear()
	require.Equal(t, 0, m.Len())
	require.Equal(t, 0, m.Get(3))
}

func TestSet(t *testing.T) {
	var s Set[testKey]
	require.False(t, s.Contains(0))
	require.False(t, s.Contains(1000))

	require.True(t, s.Insert(65))
	require.False(t, s.Insert(65), "second insert reports already present")
	require.True(t, s.Contains(65))
	require.False(t, s.Contains(64))
	require.False(t, s.Contains(66))

	s.Remove(65)
	require.False(t, s.Contains(65))
	require.True(t, s.Insert(65))

	s.Clear()
	require.False(t, s.Contains(65))
}

func TestListPool(t *testing.T) {
	var pool ListPool[uint32]
	var a, b List[uint32]

	a.Append(&pool, 1, 2, 3)
	b.Append(&pool, 10)
	require.Equal(t, []uint32{1, 2, 3}, a.Slice(&pool))
	require.Equal(t, []uint32{10}, b.Slice(&pool))

	// Appending to a list that is not at the pool tail relocates it.
	a.Append(&pool, 4)
	require.Equal(t, []uint32{1, 2, 3, 4}, a.Slice(&pool))
	require.Equal(t, []uint32{10}, b.Slice(&pool))
	require.Equal(t, 4, a.Len())

	a.Clear()
	require.Equal(t, 0, a.Len())
	require.Equal(t, []uint32{}, a.Slice(&pool))

	pool.Reset()
	var c List[uint32]
	c.Append(&pool, 7)
	require.Equal(t, []uint32{7}, c.Slice(&pool))
}
