// Package wallet implements the client-side sync/scan engine (C7): replay
// of the pool's on-chain event log into a local Merkle tree and note
// store, and best-effort decryption of EncryptedNote events addressed to
// this wallet's viewing key.
//
// Generalized from a single-note, single-transfer helper into a full
// event-replay engine that composes note.Store, merkle.Tree (client
// realization) and envelope.
package wallet

import (
	"fmt"
	"os"

	"github.com/Kirol54/privatePlasma/crypto"
	"github.com/Kirol54/privatePlasma/envelope"
	"github.com/Kirol54/privatePlasma/merkle"
	"github.com/Kirol54/privatePlasma/note"
	"github.com/Kirol54/privatePlasma/pool"
	"github.com/rs/zerolog"
)

// SpentChecker is the on-chain nullifier registry query a wallet uses to
// refresh which of its locally-known notes have been spent. pool.Pool
// satisfies this directly; a real client would implement it over an RPC
// call to is_spent(nullifier).
type SpentChecker interface {
	IsSpent(nullifier [crypto.Size32]byte) bool
}

// Wallet is the client-local reconstruction of a single owner's slice of
// the pool: a note store keyed by the owner's spending key, plus a
// from-scratch rebuild of the commitment tree driven by event replay.
type Wallet struct {
	log zerolog.Logger

	store        *note.Store
	viewingPriv  [crypto.Size32]byte
	viewingPub   [crypto.Size32]byte
	tree         *merkle.Tree
	syncedEvents int
}

// New constructs a wallet for spendingKey, with a client-realization tree
// of the given depth (must match the pool's configured tree depth).
func New(spendingKey [crypto.Size32]byte, levels int) (*Wallet, error) {
	tree, err := merkle.NewClient(levels)
	if err != nil {
		return nil, err
	}
	viewingPriv, viewingPub := crypto.ViewingKeypair(spendingKey)
	return &Wallet{
		log:         zerolog.New(os.Stdout).With().Timestamp().Str("component", "wallet").Logger(),
		store:       note.NewStore(spendingKey),
		viewingPriv: viewingPriv,
		viewingPub:  viewingPub,
		tree:        tree,
	}, nil
}

// ViewingPubKey is published out-of-band to senders so they can address an
// EncryptedNote envelope to this wallet (spec.md §4.6).
func (w *Wallet) ViewingPubKey() [crypto.Size32]byte { return w.viewingPub }

// SpendingPubKey is this wallet's owner identifier, used as a Note's
// pubkey field by a sender constructing an output note for this wallet.
func (w *Wallet) SpendingPubKey() [crypto.Size32]byte { return w.store.PubKey() }

// Store exposes the underlying note bookkeeping (balance, coin selection)
// for callers building new transfer/withdraw witnesses.
func (w *Wallet) Store() *note.Store { return w.store }

// Tree exposes the locally rebuilt commitment tree, used to generate the
// Merkle proofs a spend witness needs.
func (w *Wallet) Tree() *merkle.Tree { return w.tree }

// Sync replays events against the wallet's local tree and note store.
// events must already be linearized by (block_number, log_index) — the
// caller's event source is expected to deliver them in that order; this
// package has no chain client of its own and treats slice order as the
// total order spec.md §4.7 describes. Sync is idempotent and resumable:
// calling it again with a longer event slice that shares the same prefix
// only replays the new suffix.
func (w *Wallet) Sync(events []pool.Event) error {
	if w.syncedEvents > len(events) {
		return fmt.Errorf("wallet: sync: event log is shorter than what was already synced")
	}
	for _, ev := range events[w.syncedEvents:] {
		if err := w.applyEvent(ev); err != nil {
			return err
		}
	}
	w.syncedEvents = len(events)
	return nil
}

func (w *Wallet) applyEvent(ev pool.Event) error {
	switch {
	case ev.Deposit != nil:
		if _, err := w.tree.Insert(ev.Deposit.Commitment); err != nil {
			return fmt.Errorf("wallet: sync: rebuild tree: %w", err)
		}
	case ev.PrivateTransfer != nil:
		if _, err := w.tree.Insert(ev.PrivateTransfer.OutCommitment1); err != nil {
			return fmt.Errorf("wallet: sync: rebuild tree: %w", err)
		}
		if _, err := w.tree.Insert(ev.PrivateTransfer.OutCommitment2); err != nil {
			return fmt.Errorf("wallet: sync: rebuild tree: %w", err)
		}
	case ev.Withdrawal != nil:
		// A Withdrawal event carries no commitment of its own — a non-zero
		// change commitment, if any, arrives as a companion EncryptedNote
		// event (pool.Pool always emits one alongside a change insertion),
		// whose case below inserts it into the tree. See spec.md §9's own recommendation to
		// prefer that over decoding withdraw calldata.
	case ev.EncryptedNote != nil:
		// A withdrawal's change commitment is first seen here: it is not yet
		// in the tree and sits exactly at the tree's next index.
		enc := ev.EncryptedNote
		if _, known := w.tree.IndexOf(enc.Commitment); !known && enc.LeafIndex == w.tree.NextIndex() {
			if _, err := w.tree.Insert(enc.Commitment); err != nil {
				return fmt.Errorf("wallet: sync: rebuild tree: %w", err)
			}
		}
		w.scanEncryptedNote(*enc)
	}
	return nil
}

// scanEncryptedNote attempts to recover a note from an EncryptedNote
// event. Failure to decrypt is the expected outcome for notes not
// addressed to this wallet (spec.md §4.6/§7) and is logged at Debug, not
// surfaced as an error.
func (w *Wallet) scanEncryptedNote(ev pool.EncryptedNote) {
	if _, known := w.tree.IndexOf(ev.Commitment); !known {
		// The commitment must already be in our rebuilt tree (inserted by
		// the structural event emitted alongside this one, or by applyEvent
		// for a withdrawal's change); if it is not, the caller fed Sync an
		// out-of-order or incomplete event log.
		w.log.Debug().Msg("encrypted note references unknown commitment, skipping")
		return
	}
	if _, ok := w.store.ByCommitment(ev.Commitment); ok {
		return // already known, e.g. from a previous partial sync.
	}

	n, err := envelope.OpenAndVerify(ev.Data, w.viewingPriv, ev.Commitment)
	if err != nil {
		w.log.Debug().Err(err).Msg("encrypted note not addressed to this wallet")
		return
	}

	w.store.AddNote(n, ev.LeafIndex)
	w.log.Info().Uint32("leaf_index", ev.LeafIndex).Uint64("amount", n.Amount).Msg("recovered incoming note")
}

// RefreshSpentState queries checker for every locally-known note's
// nullifier and marks it spent on a positive answer (spec.md §4.7 step 5).
func (w *Wallet) RefreshSpentState(checker SpentChecker) {
	for _, owned := range w.store.SpendableNotes() {
		if checker.IsSpent(owned.Nullifier) {
			w.store.MarkSpent(owned.Nullifier)
		}
	}
}
