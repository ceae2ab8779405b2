// Package pool implements the on-chain pool state machine (C5): the
// contract logic that composes the Merkle tree (C2) and crypto primitives
// (C1) with a nullifier registry, a token escrow, and per-operation event
// emission, enforcing the circuit contracts of C4.
//
// Generalized from a package-level commitment tree plus nullifier list
// guarding a proof verifier into a single mutable Pool value so multiple
// pools (e.g. one per token) can coexist and so tests can construct fresh
// state per case instead of relying on package-level globals.
package pool

import (
	"fmt"
	"os"
	"time"

	"github.com/Kirol54/privatePlasma/circuit"
	"github.com/Kirol54/privatePlasma/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Params are the pool's immutable construction parameters (spec.md §6):
// token/verifier addresses are represented by the Token/Backend
// collaborators themselves; TransferVKey/WithdrawVKey are exposed the way
// the original CLI's `Commands::Vkeys` prints them for contract deployment.
type Params struct {
	Levels       int
	Backend      circuit.Backend
	TransferVKey circuit.VerifyingKey
	WithdrawVKey circuit.VerifyingKey
	Token        Token
}

// Pool is the shielded payment pool's on-chain state machine:
// (tree, root_buffer, nullifier_set, encrypted_note_store, token_escrow).
type Pool struct {
	params Params
	log    zerolog.Logger

	tree       *merkle.Tree
	nullifiers map[[32]byte]bool
	encNotes   map[uint32][]byte
	escrow     *uint256.Int

	events []Event
	clock  func() time.Time
}

// New constructs an empty pool with the given parameters.
func New(params Params) (*Pool, error) {
	tree, err := merkle.NewOnChain(params.Levels)
	if err != nil {
		return nil, err
	}
	return &Pool{
		params:     params,
		log:        zerolog.New(os.Stdout).With().Timestamp().Str("component", "pool").Logger(),
		tree:       tree,
		nullifiers: make(map[[32]byte]bool),
		encNotes:   make(map[uint32][]byte),
		escrow:     uint256.NewInt(0),
		clock:      time.Now,
	}, nil
}

// Deposit pulls amount from depositor via the token collaborator, inserts
// commitment into the tree, optionally stores encryptedData at the new
// leaf index, and emits Deposit (and EncryptedNote, if data was given).
// Every failure condition is checked before any mutation, so there is no
// partial-apply case to roll back (spec.md §4.5).
func (p *Pool) Deposit(depositor common.Address, commitment [32]byte, amount uint64, encryptedData []byte) (uint32, error) {
	if amount == 0 {
		return 0, ErrInvalidDepositAmount
	}
	if uint64(p.tree.NextIndex())+1 > p.tree.Capacity() {
		return 0, ErrTreeFull
	}

	if err := p.params.Token.TransferFrom(depositor, amount); err != nil {
		p.log.Warn().Err(err).Str("op", "deposit").Msg("token transfer failed")
		return 0, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	leafIndex, err := p.tree.Insert(commitment)
	if err != nil {
		// Unreachable given the capacity check above, but handled for safety.
		return 0, ErrTreeFull
	}

	p.escrow.AddUint64(p.escrow, amount)

	if len(encryptedData) > 0 {
		p.encNotes[leafIndex] = encryptedData
	}

	now := p.clock()
	p.events = append(p.events, Event{Deposit: &Deposit{
		Commitment: commitment,
		Amount:     amount,
		LeafIndex:  leafIndex,
		Timestamp:  now,
	}})
	if len(encryptedData) > 0 {
		p.events = append(p.events, Event{EncryptedNote: &EncryptedNote{
			Commitment: commitment,
			LeafIndex:  leafIndex,
			Data:       encryptedData,
		}})
	}

	p.log.Debug().Uint32("leaf_index", leafIndex).Uint64("amount", amount).Msg("deposit accepted")
	return leafIndex, nil
}

// PrivateTransfer verifies a 2-in-2-out transfer proof and, if it holds,
// registers both nullifiers and inserts both output commitments into the
// tree in order. No tokens move (spec.md §4.5).
func (p *Pool) PrivateTransfer(proof circuit.Proof, public circuit.TransferPublicInputs, enc1, enc2 []byte) error {
	if !p.tree.IsKnownRoot(public.Root) {
		return ErrInvalidMerkleRoot
	}
	if p.nullifiers[public.Nullifier1] || p.nullifiers[public.Nullifier2] {
		return ErrNullifierAlreadySpent
	}
	// Both inputs spending the same note would register one nullifier for two.
	if public.Nullifier1 == public.Nullifier2 {
		return ErrNullifierAlreadySpent
	}
	if uint64(p.tree.NextIndex())+2 > p.tree.Capacity() {
		return ErrTreeFull
	}
	if err := p.params.Backend.VerifyTransfer(p.params.TransferVKey, public, proof); err != nil {
		p.log.Warn().Err(err).Str("op", "private_transfer").Msg("proof rejected")
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	p.nullifiers[public.Nullifier1] = true
	p.nullifiers[public.Nullifier2] = true

	leaf1, err := p.tree.Insert(public.OutCommitment1)
	if err != nil {
		return ErrTreeFull
	}
	leaf2, err := p.tree.Insert(public.OutCommitment2)
	if err != nil {
		return ErrTreeFull
	}

	if len(enc1) > 0 {
		p.encNotes[leaf1] = enc1
	}
	if len(enc2) > 0 {
		p.encNotes[leaf2] = enc2
	}

	now := p.clock()
	p.events = append(p.events, Event{PrivateTransfer: &PrivateTransfer{
		Nullifier1:     public.Nullifier1,
		Nullifier2:     public.Nullifier2,
		OutCommitment1: public.OutCommitment1,
		OutCommitment2: public.OutCommitment2,
		Timestamp:      now,
	}})
	if len(enc1) > 0 {
		p.events = append(p.events, Event{EncryptedNote: &EncryptedNote{Commitment: public.OutCommitment1, LeafIndex: leaf1, Data: enc1}})
	}
	if len(enc2) > 0 {
		p.events = append(p.events, Event{EncryptedNote: &EncryptedNote{Commitment: public.OutCommitment2, LeafIndex: leaf2, Data: enc2}})
	}

	p.log.Debug().Msg("private transfer accepted")
	return nil
}

// Withdraw verifies a withdraw proof and, if it holds, registers the
// nullifier, inserts the change commitment (if any), and pays amount out
// to recipient. The token payout is attempted before any state mutation so
// a ErrTransferFailed never leaves a nullifier registered without the
// corresponding payout (spec.md §4.5's "total rollback" requirement,
// satisfied here by ordering rather than an explicit undo).
func (p *Pool) Withdraw(proof circuit.Proof, public circuit.WithdrawPublicInputs, encChange []byte) error {
	var zeroRecipient [20]byte
	if public.Recipient == zeroRecipient {
		return ErrZeroAddress
	}
	if !p.tree.IsKnownRoot(public.Root) {
		return ErrInvalidMerkleRoot
	}
	if p.nullifiers[public.Nullifier] {
		return ErrNullifierAlreadySpent
	}

	var zeroCommitment [32]byte
	hasChange := public.ChangeCommitment != zeroCommitment
	if hasChange && uint64(p.tree.NextIndex())+1 > p.tree.Capacity() {
		return ErrTreeFull
	}

	if err := p.params.Backend.VerifyWithdraw(p.params.WithdrawVKey, public, proof); err != nil {
		p.log.Warn().Err(err).Str("op", "withdraw").Msg("proof rejected")
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	recipient := common.Address(public.Recipient)
	if err := p.params.Token.Transfer(recipient, public.Amount); err != nil {
		p.log.Warn().Err(err).Str("op", "withdraw").Msg("token transfer failed")
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	p.nullifiers[public.Nullifier] = true
	p.escrow.SubUint64(p.escrow, public.Amount)

	var changeLeaf uint32
	if hasChange {
		leaf, err := p.tree.Insert(public.ChangeCommitment)
		if err != nil {
			return ErrTreeFull
		}
		changeLeaf = leaf
		if len(encChange) > 0 {
			p.encNotes[leaf] = encChange
		}
	}

	now := p.clock()
	p.events = append(p.events, Event{Withdrawal: &Withdrawal{
		Nullifier: public.Nullifier,
		Recipient: recipient,
		Amount:    public.Amount,
		Timestamp: now,
	}})
	if hasChange {
		p.events = append(p.events, Event{EncryptedNote: &EncryptedNote{
			Commitment: public.ChangeCommitment,
			LeafIndex:  changeLeaf,
			Data:       encChange,
		}})
	}

	p.log.Debug().Uint64("amount", public.Amount).Msg("withdrawal accepted")
	return nil
}

// LastRoot returns the tree's current root.
func (p *Pool) LastRoot() [32]byte { return p.tree.Root() }

// IsKnownRoot reports whether root is among the RootHistorySize most
// recent roots.
func (p *Pool) IsKnownRoot(root [32]byte) bool { return p.tree.IsKnownRoot(root) }

// IsSpent reports whether nullifier is already registered.
func (p *Pool) IsSpent(nullifier [32]byte) bool { return p.nullifiers[nullifier] }

// EncryptedNoteAt returns the stored blob for leafIndex, or nil if none
// was stored.
func (p *Pool) EncryptedNoteAt(leafIndex uint32) []byte { return p.encNotes[leafIndex] }

// LeafCount equals the tree's nextIndex.
func (p *Pool) LeafCount() uint32 { return p.tree.NextIndex() }

// Escrow returns the pool's current token balance, I5's
// "Σ deposit_amount − Σ withdraw_amount".
func (p *Pool) Escrow() *uint256.Int { return p.escrow.Clone() }

// Events returns the full emitted event log in emission order, the
// linearized record a C7 sync engine would replay.
func (p *Pool) Events() []Event { return p.events }
