package note

import (
	"errors"
	"sort"

	"github.com/Kirol54/privatePlasma/crypto"
)

// ErrInsufficientBalance is returned by SelectNotes when the spendable
// notes, however combined, cannot cover the requested amount.
var ErrInsufficientBalance = errors.New("note: insufficient spendable balance")

// ErrInsufficientInputs is returned by SelectNotes(mode=Two) when fewer
// than two spendable notes exist. spec.md §9's "dummy inputs for 2-in-2-out"
// open question is resolved as option (b): two real inputs are mandatory,
// so a wallet holding a single note must self-consolidate (two deposits)
// before it can build a private transfer; see SPEC_FULL.md §4.
var ErrInsufficientInputs = errors.New("note: two real spendable notes are required for a 2-in-2-out transfer")

// SelectMode chooses between withdraw's 1-in-1(+change)-out shape and
// transfer's fixed 2-in-2-out shape.
type SelectMode int

const (
	// SelectOne picks a single note whose amount covers the request, for withdraw.
	SelectOne SelectMode = iota
	// SelectTwo picks the two largest spendable notes, for transfer.
	SelectTwo
)

// OwnedNote is a Note the wallet tracks locally, together with its position
// in the Merkle tree and its nullifier under this wallet's spending key.
type OwnedNote struct {
	Note      Note
	LeafIndex uint32
	Nullifier [crypto.Size32]byte

	insertionSeq int
}

// Store is the wallet-local bookkeeping layer of C3: owned notes, the
// locally-known spent set, and coin selection. A Store is single-owner —
// every note it tracks belongs to one spending key.
type Store struct {
	spendingKey [crypto.Size32]byte
	pubKey      [crypto.Size32]byte

	notes []*OwnedNote
	spent map[[crypto.Size32]byte]bool
	seq   int
}

// NewStore creates wallet bookkeeping for the given spending key.
func NewStore(spendingKey [crypto.Size32]byte) *Store {
	return &Store{
		spendingKey: spendingKey,
		pubKey:      crypto.SpendPubKey(spendingKey),
		spent:       make(map[[crypto.Size32]byte]bool),
	}
}

// SpendingKey returns the store's spending key.
func (s *Store) SpendingKey() [crypto.Size32]byte { return s.spendingKey }

// PubKey returns spend_pubkey = keccak256(spending_key), this store's owner identifier.
func (s *Store) PubKey() [crypto.Size32]byte { return s.pubKey }

// CreateNote builds a fresh note owned by this store, ready to be sent as
// an output of a transfer or deposit.
func (s *Store) CreateNote(amount uint64) Note {
	return New(amount, s.pubKey)
}

// AddNote indexes n by its commitment, computing and recording its
// nullifier under this store's spending key.
func (s *Store) AddNote(n Note, leafIndex uint32) *OwnedNote {
	owned := &OwnedNote{
		Note:         n,
		LeafIndex:    leafIndex,
		Nullifier:    n.Nullifier(s.spendingKey),
		insertionSeq: s.seq,
	}
	s.seq++
	s.notes = append(s.notes, owned)
	return owned
}

// ByCommitment finds a previously added note by its commitment, used by
// the sync engine to avoid re-adding a note it already recovered.
func (s *Store) ByCommitment(commitment [crypto.Size32]byte) (*OwnedNote, bool) {
	for _, n := range s.notes {
		if n.Note.Commitment() == commitment {
			return n, true
		}
	}
	return nil, false
}

// MarkSpent records nullifier as spent in the local spent set.
func (s *Store) MarkSpent(nullifier [crypto.Size32]byte) {
	s.spent[nullifier] = true
}

// IsSpent reports whether nullifier has been locally recorded as spent.
func (s *Store) IsSpent(nullifier [crypto.Size32]byte) bool {
	return s.spent[nullifier]
}

// SpendableNotes returns owned notes whose nullifier is not locally marked
// spent, ordered largest-amount-first; equal amounts break ties by
// insertion order (stable sort), matching spec.md §4.3.
func (s *Store) SpendableNotes() []*OwnedNote {
	var out []*OwnedNote
	for _, n := range s.notes {
		if !s.spent[n.Nullifier] {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Note.Amount != out[j].Note.Amount {
			return out[i].Note.Amount > out[j].Note.Amount
		}
		return out[i].insertionSeq < out[j].insertionSeq
	})
	return out
}

// Balance returns the sum of all spendable note amounts.
func (s *Store) Balance() uint64 {
	var total uint64
	for _, n := range s.SpendableNotes() {
		total += n.Note.Amount
	}
	return total
}

// SelectNotes performs deterministic greedy largest-first coin selection.
//
// SelectOne returns the smallest single spendable note covering amount
// (withdraw's input note must alone cover the withdrawal plus any change).
// SelectTwo returns the two largest spendable notes — transfer's circuit is
// fixed at exactly two real inputs, so no fewer and no more are ever chosen.
func (s *Store) SelectNotes(amount uint64, mode SelectMode) (inputs []*OwnedNote, change uint64, err error) {
	spendable := s.SpendableNotes()

	switch mode {
	case SelectOne:
		for _, n := range spendable {
			if n.Note.Amount >= amount {
				return []*OwnedNote{n}, n.Note.Amount - amount, nil
			}
		}
		return nil, 0, ErrInsufficientBalance

	case SelectTwo:
		if len(spendable) < 2 {
			return nil, 0, ErrInsufficientInputs
		}
		chosen := []*OwnedNote{spendable[0], spendable[1]}
		sum := chosen[0].Note.Amount + chosen[1].Note.Amount
		if sum < amount {
			return nil, 0, ErrInsufficientBalance
		}
		return chosen, sum - amount, nil

	default:
		return nil, 0, errors.New("note: unknown select mode")
	}
}
