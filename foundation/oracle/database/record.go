package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/signature"
)

// ErrChainBroken is returned when a record does not link to the record
// written before it.
var ErrChainBroken = errors.New("purchase journal chain broken")

// =============================================================================

// Record is the journal entry written for every authorized purchase. Each
// record carries the hash of the previous one so an edited journal is
// detected when it is replayed.
type Record struct {
	Number        uint64       `json:"number"`         // Index of the key that was issued.
	PrevHash      string       `json:"prev_hash"`      // Hash of the previous record in the journal.
	ID            string       `json:"id"`             // Unique id for the purchase.
	Buyer         Account      `json:"buyer"`          // Account that paid for the key.
	Recipient     Account      `json:"recipient"`      // Account that received the key.
	Referrer      Account      `json:"referrer"`       // Account that referred the buyer.
	PricePaid     *uint256.Int `json:"price_paid"`     // Price offered by the lock.
	RequiredPrice *uint256.Int `json:"required_price"` // Price computed by the curve.
	Data          []byte       `json:"data"`           // Opaque data passed through from the lock.
	TimeStamp     uint64       `json:"timestamp"`      // Time the purchase was authorized.
}

// NewRecord constructs the record for a purchase issuing the specified key.
func NewRecord(prev Record, number uint64, p Purchase, required *uint256.Int) Record {
	return Record{
		Number:        number,
		PrevHash:      prev.Hash(),
		ID:            uuid.New().String(),
		Buyer:         p.Buyer,
		Recipient:     p.Recipient,
		Referrer:      p.Referrer,
		PricePaid:     p.OfferedPrice().Clone(),
		RequiredPrice: required.Clone(),
		Data:          p.Data,
		TimeStamp:     uint64(time.Now().UTC().UnixMilli()),
	}
}

// Hash returns the unique hash for the record. The zero record hashes to
// the ZeroHash so the first record of a journal links to it.
func (r Record) Hash() string {
	if r.Number == 0 {
		return signature.ZeroHash
	}

	return signature.Hash(r)
}

// ValidateRecord checks the record is the next record after prev and
// issues the key following the specified supply.
func (r Record) ValidateRecord(prev Record, supply uint64) error {
	if r.Number != supply+1 {
		return fmt.Errorf("record %d does not follow supply %d: %w", r.Number, supply, ErrChainBroken)
	}

	if r.PrevHash != prev.Hash() {
		return fmt.Errorf("record %d prev hash %s does not match %s: %w", r.Number, r.PrevHash, prev.Hash(), ErrChainBroken)
	}

	if r.PricePaid == nil || r.RequiredPrice == nil {
		return fmt.Errorf("record %d is missing prices: %w", r.Number, ErrChainBroken)
	}

	if r.PricePaid.Lt(r.RequiredPrice) {
		return fmt.Errorf("record %d paid %s below required %s: %w", r.Number, r.PricePaid, r.RequiredPrice, ErrChainBroken)
	}

	return nil
}
