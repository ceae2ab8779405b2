package merkle

import (
	"testing"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/stretchr/testify/require"
)

func TestEmptyRootMatchesZeroFold(t *testing.T) {
	for levels := 1; levels <= 8; levels++ {
		tree, err := NewOnChain(levels)
		require.NoError(t, err)

		zeros := computeZeros(levels)
		want := crypto.HashPair(zeros[levels-1], zeros[levels-1])
		require.Equal(t, want, tree.Root())
	}
}

func TestSingleLeafTreeRoot(t *testing.T) {
	tree, err := NewOnChain(4)
	require.NoError(t, err)

	leaf := crypto.Keccak256([]byte("leaf0"))
	idx, err := tree.Insert(leaf)
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx)

	zeros := computeZeros(4)
	want := crypto.HashPair(
		crypto.HashPair(
			crypto.HashPair(
				crypto.HashPair(leaf, zeros[0]),
				zeros[1]),
			zeros[2]),
		zeros[3])
	require.Equal(t, want, tree.Root())
}

func TestTwoLeafTreeRoot(t *testing.T) {
	tree, err := NewOnChain(4)
	require.NoError(t, err)

	leaf0 := crypto.Keccak256([]byte("leaf0"))
	leaf1 := crypto.Keccak256([]byte("leaf1"))
	_, err = tree.Insert(leaf0)
	require.NoError(t, err)
	_, err = tree.Insert(leaf1)
	require.NoError(t, err)

	zeros := computeZeros(4)
	want := crypto.HashPair(
		crypto.HashPair(
			crypto.HashPair(
				crypto.HashPair(leaf0, leaf1),
				zeros[1]),
			zeros[2]),
		zeros[3])
	require.Equal(t, want, tree.Root())
}

func TestInsertReturnsSequentialIndices(t *testing.T) {
	tree, err := NewClient(4)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		idx, err := tree.Insert(crypto.Keccak256([]byte{byte(i)}))
		require.NoError(t, err)
		require.Equal(t, uint32(i), idx)
	}
}

func TestInsertFailsWhenFull(t *testing.T) {
	tree, err := NewOnChain(2) // capacity 4
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := tree.Insert(crypto.Keccak256([]byte{byte(i)}))
		require.NoError(t, err)
	}
	_, err = tree.Insert(crypto.Keccak256([]byte{4}))
	require.ErrorIs(t, err, ErrTreeFull)
}

func TestMembershipProofsVerifyAgainstCurrentRoot(t *testing.T) {
	tree, err := NewClient(4)
	require.NoError(t, err)

	var leaves [][crypto.Size32]byte
	for i := 0; i < 3; i++ {
		leaf := crypto.Keccak256([]byte{byte(i)})
		leaves = append(leaves, leaf)
		_, err := tree.Insert(leaf)
		require.NoError(t, err)
	}

	root := tree.Root()
	for i, leaf := range leaves {
		proof, err := tree.Proof(uint32(i))
		require.NoError(t, err)
		require.Len(t, proof, 4)
		require.True(t, proof.Verify(leaf, root), "proof failed for leaf %d", i)
	}
}

func TestProofRejectsWrongLeaf(t *testing.T) {
	tree, err := NewClient(4)
	require.NoError(t, err)

	real := crypto.Keccak256([]byte("real leaf"))
	_, err = tree.Insert(real)
	require.NoError(t, err)

	proof, err := tree.Proof(0)
	require.NoError(t, err)

	fake := crypto.Keccak256([]byte("fake leaf"))
	require.False(t, proof.Verify(fake, tree.Root()))
}

func TestOnChainTreeHasNoLeaves(t *testing.T) {
	tree, err := NewOnChain(4)
	require.NoError(t, err)
	_, err = tree.Insert(crypto.Keccak256([]byte("x")))
	require.NoError(t, err)

	_, err = tree.Proof(0)
	require.ErrorIs(t, err, ErrNoLeaves)
}

func TestIsKnownRootHistory(t *testing.T) {
	tree, err := NewOnChain(4)
	require.NoError(t, err)

	rootBefore := tree.Root()
	_, err = tree.Insert(crypto.Keccak256([]byte("leaf")))
	require.NoError(t, err)
	rootAfter := tree.Root()

	require.NotEqual(t, rootBefore, rootAfter)
	require.True(t, tree.IsKnownRoot(rootBefore))
	require.True(t, tree.IsKnownRoot(rootAfter))

	var zero [crypto.Size32]byte
	require.False(t, tree.IsKnownRoot(zero))
}

func TestIsKnownRootEvictsOldestBeyondHistorySize(t *testing.T) {
	tree, err := NewOnChain(10)
	require.NoError(t, err)

	roots := make([][crypto.Size32]byte, 0, RootHistorySize+5)
	roots = append(roots, tree.Root())
	for i := 0; i < RootHistorySize+5; i++ {
		_, err := tree.Insert(crypto.Keccak256([]byte{byte(i)}))
		require.NoError(t, err)
		roots = append(roots, tree.Root())
	}

	// The most recent RootHistorySize roots must be known.
	for _, r := range roots[len(roots)-RootHistorySize:] {
		require.True(t, tree.IsKnownRoot(r))
	}
	// Roots evicted beyond the window must not be known.
	require.False(t, tree.IsKnownRoot(roots[0]))
}

func TestIndexOfLocatesLeaf(t *testing.T) {
	tree, err := NewClient(4)
	require.NoError(t, err)

	leaf := crypto.Keccak256([]byte("x"))
	idx, err := tree.Insert(leaf)
	require.NoError(t, err)

	found, ok := tree.IndexOf(leaf)
	require.True(t, ok)
	require.Equal(t, idx, found)

	_, ok = tree.IndexOf(crypto.Keccak256([]byte("y")))
	require.False(t, ok)
}
