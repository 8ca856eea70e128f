package mung_test

import (
	"testing"

	"github.com/sagernet/sing-jarm/common/mung"

	"github.com/stretchr/testify/require"
)

var alpnLike = []string{"hq", "h2c", "spdy/3+h2", "spdy/2", "spdy/1", "http/1.1", "http/1.0", "http/0.9"}

func TestForwardIsIdentity(t *testing.T) {
	t.Parallel()
	for _, items := range [][]int{nil, {1}, {1, 2}, {1, 2, 3, 4, 5}} {
		require.Equal(t, append([]int(nil), items...), mung.Apply(items, mung.Forward))
	}
}

func TestReverseTwice(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5, 6, 7}
	reversed := mung.Apply(items, mung.Reverse)
	require.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, reversed)
	require.Equal(t, items, mung.Apply(reversed, mung.Reverse))
}

func TestEvenLength(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"spdy/2", "spdy/3+h2", "h2c", "hq"}, mung.Apply(alpnLike, mung.TopHalf))
	require.Equal(t, []string{"spdy/1", "http/1.1", "http/1.0", "http/0.9"}, mung.Apply(alpnLike, mung.BottomHalf))
	require.Equal(t, []string{"spdy/1", "spdy/2", "http/1.1", "spdy/3+h2", "http/1.0", "h2c", "http/0.9", "hq"}, mung.Apply(alpnLike, mung.MiddleOut))
}

func TestOddLength(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}
	require.Equal(t, []int{3, 2, 1}, mung.Apply(items, mung.TopHalf))
	require.Equal(t, []int{4, 5}, mung.Apply(items, mung.BottomHalf))
	require.Equal(t, []int{3, 4, 2, 5, 1}, mung.Apply(items, mung.MiddleOut))
}

func TestHalvesPartition(t *testing.T) {
	t.Parallel()
	for n := 2; n < 12; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		top := mung.Apply(items, mung.TopHalf)
		bottom := mung.Apply(items, mung.BottomHalf)
		require.Len(t, bottom, n/2)
		require.Len(t, top, n-n/2)
		require.ElementsMatch(t, items, append(top, bottom...))
	}
}

func TestDegenerate(t *testing.T) {
	t.Parallel()
	require.Empty(t, mung.Apply([]int{}, mung.MiddleOut))
	require.Equal(t, []int{9}, mung.Apply([]int{9}, mung.MiddleOut))
	require.Equal(t, []int{9}, mung.Apply([]int{9}, mung.TopHalf))
	require.Equal(t, []int{9}, mung.Apply([]int{9}, mung.Reverse))
}

func TestApplyDoesNotAlias(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3}
	output := mung.Apply(items, mung.Forward)
	output[0] = 42
	require.Equal(t, 1, items[0])
}

func TestParseOrder(t *testing.T) {
	t.Parallel()
	for _, order := range []mung.Order{mung.Forward, mung.Reverse, mung.TopHalf, mung.BottomHalf, mung.MiddleOut} {
		parsed, err := mung.ParseOrder(order.String())
		require.NoError(t, err)
		require.Equal(t, order, parsed)
	}
	_, err := mung.ParseOrder("sideways")
	require.Error(t, err)
}
