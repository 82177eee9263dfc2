package avltree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireBalanced walks every node and checks the AVL invariant plus the
// cached height and size metadata.
func requireBalanced[K, V any](t *testing.T, tree *Tree[K, V]) {
	t.Helper()

	var check func(n *node[K, V]) (int, int)
	check = func(n *node[K, V]) (int, int) {
		if n == nil {
			return 0, 0
		}
		lh, lc := check(n.left)
		rh, rc := check(n.right)

		bf := lh - rh
		require.True(t, bf >= -1 && bf <= 1, "balance factor %d out of range", bf)
		require.Equal(t, 1+max(lh, rh), n.height, "stale cached height")

		return n.height, lc + rc + 1
	}

	h, count := check(tree.root)
	require.Equal(t, tree.Len(), count)
	require.Equal(t, tree.Height(), h)
}

func collectKeys[K, V any](tree *Tree[K, V]) []K {
	var keys []K
	for k := range tree.All() {
		keys = append(keys, k)
	}
	return keys
}

func collectValues[K, V any](tree *Tree[K, V]) []V {
	var values []V
	for _, v := range tree.All() {
		values = append(values, v)
	}
	return values
}

func TestTree_OrderingRoundTrip(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())
	for _, key := range []int64{5, 9, 3, 8, 1, 6, 7} {
		tree = tree.Put(key, "")
	}

	assert.Equal(t, []int64{1, 3, 5, 6, 7, 8, 9}, collectKeys(tree))
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 4, tree.Height())
	requireBalanced(t, tree)
}

func TestTree_DescendingOrdering(t *testing.T) {
	tree := New[int64, string](Descending[int64]())
	for _, key := range []int64{5, 9, 3, 8, 1, 6, 7} {
		tree = tree.Put(key, "")
	}

	assert.Equal(t, []int64{9, 8, 7, 6, 5, 3, 1}, collectKeys(tree))

	first, _, ok := tree.First()
	require.True(t, ok)
	assert.Equal(t, int64(9), first)

	last, _, ok := tree.Last()
	require.True(t, ok)
	assert.Equal(t, int64(1), last)
}

func TestTree_Lookups(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())

	t.Run("empty tree", func(t *testing.T) {
		assert.Equal(t, "absent", tree.Get(10, "absent"))
		assert.False(t, tree.Contains(10))

		_, _, ok := tree.First()
		assert.False(t, ok)
		_, _, ok = tree.Last()
		assert.False(t, ok)
	})

	tree = tree.Put(10, "a").Put(20, "b").Put(30, "c")

	t.Run("present keys", func(t *testing.T) {
		assert.Equal(t, "a", tree.Get(10, ""))
		assert.Equal(t, "c", tree.Get(30, ""))
		assert.True(t, tree.Contains(20))
	})

	t.Run("absent keys fall back", func(t *testing.T) {
		assert.Equal(t, "absent", tree.Get(15, "absent"))
		assert.False(t, tree.Contains(15))
	})

	t.Run("first and last", func(t *testing.T) {
		k, v, ok := tree.First()
		require.True(t, ok)
		assert.Equal(t, int64(10), k)
		assert.Equal(t, "a", v)

		k, v, ok = tree.Last()
		require.True(t, ok)
		assert.Equal(t, int64(30), k)
		assert.Equal(t, "c", v)
	})
}

func TestTree_PutReplacesEqualKey(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())
	tree = tree.Put(10, "old").Put(10, "new")

	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, "new", tree.Get(10, ""))
}

func TestTree_DuplicatePolicy(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())
	tree = tree.Put(5, "low").Put(15, "high")
	tree = tree.Put(10, "middle")
	tree = tree.PutLower(10, "first")
	tree = tree.PutUpper(10, "last")

	require.Equal(t, 5, tree.Len())
	requireBalanced(t, tree)

	t.Run("run preserves insertion order", func(t *testing.T) {
		assert.Equal(t, []string{"low", "first", "middle", "last", "high"}, collectValues(tree))
		assert.Equal(t, "first", tree.GetLower(10, ""))
		assert.Equal(t, "last", tree.GetUpper(10, ""))
	})

	t.Run("delete lower removes first of run", func(t *testing.T) {
		trimmed := tree.DeleteLower(10)
		assert.Equal(t, []string{"low", "middle", "last", "high"}, collectValues(trimmed))
		requireBalanced(t, trimmed)
	})

	t.Run("delete upper removes last of run", func(t *testing.T) {
		trimmed := tree.DeleteUpper(10)
		assert.Equal(t, []string{"low", "first", "middle", "high"}, collectValues(trimmed))
		requireBalanced(t, trimmed)
	})

	t.Run("get lower and upper fall back when absent", func(t *testing.T) {
		assert.Equal(t, "absent", tree.GetLower(99, "absent"))
		assert.Equal(t, "absent", tree.GetUpper(99, "absent"))
	})
}

func TestTree_DeleteAbsentIsNoop(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())
	tree = tree.Put(10, "a")

	same := tree.Delete(99)
	assert.Equal(t, 1, same.Len())
	assert.Equal(t, "a", same.Get(10, ""))
}

func TestTree_DeleteTwoChildrenPromotesSuccessor(t *testing.T) {
	tree := New[int64, string](Ascending[int64]())
	for _, key := range []int64{50, 30, 70, 20, 40, 60, 80} {
		tree = tree.Put(key, "")
	}

	trimmed := tree.Delete(50)
	assert.Equal(t, []int64{20, 30, 40, 60, 70, 80}, collectKeys(trimmed))
	requireBalanced(t, trimmed)
}

func TestTree_PersistentUpdates(t *testing.T) {
	base := New[int64, string](Ascending[int64]())
	for _, key := range []int64{10, 20, 30} {
		base = base.Put(key, "base")
	}

	t.Run("put leaves the receiver unchanged", func(t *testing.T) {
		derived := base.Put(40, "derived").Put(20, "replaced")

		assert.Equal(t, 3, base.Len())
		assert.Equal(t, "base", base.Get(20, ""))
		assert.False(t, base.Contains(40))

		assert.Equal(t, 4, derived.Len())
		assert.Equal(t, "replaced", derived.Get(20, ""))
	})

	t.Run("delete leaves the receiver unchanged", func(t *testing.T) {
		derived := base.Delete(10)

		assert.Equal(t, 3, base.Len())
		assert.True(t, base.Contains(10))
		assert.False(t, derived.Contains(10))
	})
}

func TestTree_IterationEarlyStop(t *testing.T) {
	tree := New[int64, int](Ascending[int64]())
	for i := int64(1); i <= 100; i++ {
		tree = tree.Put(i, int(i))
	}

	var seen []int64
	for k := range tree.All() {
		seen = append(seen, k)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []int64{1, 2, 3}, seen)

	// The sequence is restartable.
	count := 0
	for range tree.All() {
		count++
	}
	assert.Equal(t, 100, count)
}

func TestTree_BalanceUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tree := New[int64, int](Ascending[int64]())
	present := map[int64]bool{}

	for i := 0; i < 2000; i++ {
		key := int64(rng.Intn(300))
		if rng.Intn(3) == 0 {
			tree = tree.Delete(key)
			delete(present, key)
		} else {
			tree = tree.Put(key, i)
			present[key] = true
		}
	}

	requireBalanced(t, tree)
	require.Equal(t, len(present), tree.Len())

	keys := collectKeys(tree)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
	for key := range present {
		assert.True(t, tree.Contains(key))
	}
}
