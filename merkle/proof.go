package merkle

import "github.com/Kirol54/privatePlasma/crypto"

// ProofStep is one level of a Merkle membership proof. IsLeft mirrors
// _examples/original_source/lib/src/lib.rs's MerkleProofStep convention:
// IsLeft = true means the current node is the left child, so the parent is
// hash_pair(current, sibling); otherwise the parent is hash_pair(sibling, current).
type ProofStep struct {
	IsLeft  bool
	Sibling [crypto.Size32]byte
}

// Proof is a full root-ward path of proof steps, one per tree level.
type Proof []ProofStep

// Verify recomputes the root by folding leaf up through proof and reports
// whether it equals root.
func (p Proof) Verify(leaf [crypto.Size32]byte, root [crypto.Size32]byte) bool {
	current := leaf
	for _, step := range p {
		if step.IsLeft {
			current = crypto.HashPair(current, step.Sibling)
		} else {
			current = crypto.HashPair(step.Sibling, current)
		}
	}
	return current == root
}

// Proof generates a membership proof for the leaf at leafIndex against the
// tree's current state. Only the client realization (constructed with
// NewClient) retains leaves; calling this on an on-chain tree returns
// ErrNoLeaves.
//
// Positions at or beyond NextIndex are treated as the zero-subtree of their
// level, exactly as an on-chain tree would see them: the proof is computed
// by lazily building only the dense prefix of each level (spec.md §9's
// "precompute level caches lazily"), substituting Z_level for any sibling
// past the filled range instead of rebuilding the full 2^levels tree.
func (t *Tree) Proof(leafIndex uint32) (Proof, error) {
	if t.leaves == nil {
		return nil, ErrNoLeaves
	}
	if leafIndex >= uint32(len(t.leaves)) {
		return nil, ErrLeafNotFound
	}

	levelNodes := make([][][crypto.Size32]byte, t.levels+1)
	levelNodes[0] = t.leaves
	for level := 0; level < t.levels; level++ {
		cur := levelNodes[level]
		nextLen := (len(cur) + 1) / 2
		next := make([][crypto.Size32]byte, nextLen)
		for i := 0; i < nextLen; i++ {
			left := t.nodeAt(levelNodes, level, uint32(2*i))
			right := t.nodeAt(levelNodes, level, uint32(2*i+1))
			next[i] = crypto.HashPair(left, right)
		}
		levelNodes[level+1] = next
	}

	proof := make(Proof, t.levels)
	idx := leafIndex
	for level := 0; level < t.levels; level++ {
		siblingIdx := idx ^ 1
		proof[level] = ProofStep{
			IsLeft:  idx%2 == 0,
			Sibling: t.nodeAt(levelNodes, level, siblingIdx),
		}
		idx /= 2
	}
	return proof, nil
}

// nodeAt returns the node at (level, idx), substituting the level's zero
// subtree when idx falls past the densely-computed prefix at that level.
func (t *Tree) nodeAt(levelNodes [][][crypto.Size32]byte, level int, idx uint32) [crypto.Size32]byte {
	cur := levelNodes[level]
	if int(idx) < len(cur) {
		return cur[idx]
	}
	return t.zeros[level]
}

// Leaf returns the leaf stored at idx on a client realization.
func (t *Tree) Leaf(idx uint32) ([crypto.Size32]byte, bool) {
	if t.leaves == nil || idx >= uint32(len(t.leaves)) {
		return [crypto.Size32]byte{}, false
	}
	return t.leaves[idx], true
}

// IndexOf finds the leaf index of commitment among retained leaves, used by
// the sync engine (C7) to locate a newly-decrypted note's position.
func (t *Tree) IndexOf(commitment [crypto.Size32]byte) (uint32, bool) {
	for i, l := range t.leaves {
		if l == commitment {
			return uint32(i), true
		}
	}
	return 0, false
}
