package csync

import (
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	m := NewMap[int, string]()
	m.Set(1, "one")
	m.Set(2, "two")
	require.Equal(t, 2, m.Len())

	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)

	// deleting while iterating works on the snapshot
	for k := range m.Seq2() {
		m.Del(k)
	}
	require.Zero(t, m.Len())

	m.Set(3, "three")
	v, ok = m.Take(3)
	require.True(t, ok)
	require.Equal(t, "three", v)
	_, ok = m.Take(3)
	require.False(t, ok)

	m.Set(4, "four")
	m.Reset()
	require.Zero(t, m.Len())
}

func TestMapJSON(t *testing.T) {
	t.Parallel()

	m := NewMapFrom(map[string]int{"a": 1})
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(data))

	var got Map[string, int]
	require.NoError(t, json.Unmarshal([]byte(`{"b":2}`), &got))
	v, ok := got.Get("b")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestSlice(t *testing.T) {
	t.Parallel()

	s := NewSliceFrom([]int{2, 3})
	s.Prepend(1)
	s.Append(4, 5)
	require.Equal(t, []int{1, 2, 3, 4, 5}, slices.Collect(s.Seq()))

	v, ok := s.PopFront()
	require.True(t, ok)
	require.Equal(t, 1, v)

	require.True(t, s.Delete(1))
	require.False(t, s.Delete(10))
	require.True(t, s.Set(0, 20))
	v, ok = s.Get(0)
	require.True(t, ok)
	require.Equal(t, 20, v)
	require.Equal(t, 3, s.Len())

	s.Clear()
	_, ok = s.PopFront()
	require.False(t, ok)
}

func TestSliceConcurrentQueue(t *testing.T) {
	t.Parallel()

	s := NewSlice[int]()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				s.Append(i*100 + j)
			}
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for {
		v, ok := s.PopFront()
		if !ok {
			break
		}
		seen[v] = true
	}
	assert.Len(t, seen, 800)
}
