package state

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/fixedpoint"
	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// Set of errors returned when a purchase is not authorized. None of them
// leave a change behind in the supply or the journal.
var (
	ErrUnauthorized  = errors.New("caller is not the configured lock")
	ErrPriceMismatch = errors.New("offered price is below the required price")
	ErrStaleNonce    = errors.New("purchase nonce does not match the next key")
)

// PriceError reports the prices involved in a rejected purchase.
type PriceError struct {
	Required *uint256.Int
	Offered  *uint256.Int
}

// Error implements the error interface.
func (pe *PriceError) Error() string {
	return fmt.Sprintf("%s: required[%s] offered[%s]", ErrPriceMismatch, pe.Required.Dec(), pe.Offered.Dec())
}

// Unwrap allows errors.Is to match ErrPriceMismatch.
func (pe *PriceError) Unwrap() error {
	return ErrPriceMismatch
}

// Receipt describes a purchase that was authorized.
type Receipt struct {
	KeyIndex      uint64       `json:"key_index"`      // Index of the key that was issued.
	RequiredPrice *uint256.Int `json:"required_price"` // Price the key was authorized at.
	NextKeyPrice  *uint256.Int `json:"next_key_price"` // Price the lock should quote for the next key.
	Supply        uint64       `json:"supply"`         // Supply after the purchase.
}

// =============================================================================

// AuthorizePurchase is called by the lock immediately before it issues a
// key. The purchase is authorized when the caller is the configured lock
// and the offered price covers the curve price at the current supply. A
// successful call increments the supply by exactly one.
func (s *State) AuthorizePurchase(caller database.Account, p database.Purchase) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authorize(caller, p, 0)
}

// AuthorizeSignedPurchase authorizes a purchase whose caller is proven by
// its signature. The nonce must name the key about to be issued so a
// signed purchase can never be replayed.
func (s *State) AuthorizeSignedPurchase(sp database.SignedPurchase) (Receipt, error) {

	// Validate rejects a zero nonce, which authorize treats as unsigned.
	if err := sp.Validate(); err != nil {
		return Receipt{}, err
	}

	caller, err := sp.FromAccount()
	if err != nil {
		return Receipt{}, fmt.Errorf("recovering caller: %w: %s", ErrUnauthorized, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authorize(caller, sp.Purchase, sp.Nonce)
}

// authorize performs the authorization. The caller must hold the mutex. A
// nonce of zero skips the nonce check. The nonce is only compared once the
// caller is known to be the lock.
func (s *State) authorize(caller database.Account, p database.Purchase, nonce uint64) (Receipt, error) {
	if !s.lock.Equal(caller) {
		s.evHandler("state: authorize: rejected: caller[%s]", caller)
		return Receipt{}, fmt.Errorf("caller %s: %w", caller, ErrUnauthorized)
	}

	supply := s.db.Supply()

	if nonce != 0 && nonce != supply+1 {
		return Receipt{}, fmt.Errorf("nonce[%d] next key[%d]: %w", nonce, supply+1, ErrStaleNonce)
	}

	// The counter must never advance past the last supply that can be priced.
	if supply >= curve.MaxSupply {
		return Receipt{}, fmt.Errorf("supply %d: %w", supply, fixedpoint.ErrOverflow)
	}

	required, err := s.curve.Price(supply)
	if err != nil {
		return Receipt{}, err
	}

	offered := p.OfferedPrice()
	if offered.Lt(required) {
		s.evHandler("state: authorize: rejected: buyer[%s]: required[%s]: offered[%s]", p.Buyer, required.Dec(), offered.Dec())
		return Receipt{}, &PriceError{Required: required, Offered: offered.Clone()}
	}

	record := database.NewRecord(s.db.LatestRecord(), supply+1, p, required)
	if err := s.db.Append(record); err != nil {
		return Receipt{}, fmt.Errorf("journal purchase: %w", err)
	}

	// No further key is authorized at the top of the curve so the next
	// price is left empty there.
	var next *uint256.Int
	if record.Number < curve.MaxSupply {
		if next, err = s.curve.Price(record.Number); err != nil {
			s.evHandler("state: authorize: key[%d]: next price: ERROR: %s", record.Number, err)
		}
	}

	s.evHandler("state: authorize: key[%d]: buyer[%s]: recipient[%s]: price[%s]", record.Number, p.Buyer, p.Recipient, s.curve.ToDecimal(required))

	receipt := Receipt{
		KeyIndex:      record.Number,
		RequiredPrice: required,
		NextKeyPrice:  next,
		Supply:        record.Number,
	}

	return receipt, nil
}
