package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/signature"
)

// Purchase carries the arguments a lock passes to the oracle when it asks
// for a key purchase to be authorized.
type Purchase struct {
	Buyer     Account      `json:"buyer"`     // Account paying for the key.
	Recipient Account      `json:"recipient"` // Account receiving the key.
	Referrer  Account      `json:"referrer"`  // Account that referred the buyer, zero if none.
	Price     *uint256.Int `json:"price"`     // Price offered by the lock in token units.
	Data      []byte       `json:"data"`      // Opaque data passed through from the lock.
}

// NewPurchase constructs a purchase after validating the accounts.
func NewPurchase(buyer Account, recipient Account, referrer Account, price *uint256.Int, data []byte) (Purchase, error) {
	if !buyer.IsAccount() {
		return Purchase{}, fmt.Errorf("buyer account is not properly formatted")
	}

	if !recipient.IsAccount() {
		return Purchase{}, fmt.Errorf("recipient account is not properly formatted")
	}

	if referrer == "" {
		referrer = ZeroAccount
	}

	if !referrer.IsAccount() {
		return Purchase{}, fmt.Errorf("referrer account is not properly formatted")
	}

	if price == nil {
		price = new(uint256.Int)
	}

	p := Purchase{
		Buyer:     buyer,
		Recipient: recipient,
		Referrer:  referrer,
		Price:     price,
		Data:      data,
	}

	return p, nil
}

// OfferedPrice returns the offered price treating a missing price as zero.
func (p Purchase) OfferedPrice() *uint256.Int {
	if p.Price == nil {
		return new(uint256.Int)
	}
	return p.Price
}

// Sign uses the specified private key to sign the purchase for the key with
// the specified index. The index acts as a nonce so a signed purchase can
// only ever authorize one key.
func (p Purchase) Sign(nonce uint64, privateKey *ecdsa.PrivateKey) (SignedPurchase, error) {
	if !p.Buyer.IsAccount() || !p.Recipient.IsAccount() {
		return SignedPurchase{}, fmt.Errorf("purchase accounts are not properly formatted")
	}

	payload := signedPayload{
		Nonce:    nonce,
		Purchase: p,
	}

	// Sign the purchase with the private key to produce a signature.
	v, r, s, err := signature.Sign(payload, privateKey)
	if err != nil {
		return SignedPurchase{}, err
	}

	// Construct the signed purchase by adding the signature
	// in the [R|S|V] format.
	sp := SignedPurchase{
		Nonce:    nonce,
		Purchase: p,
		V:        v,
		R:        r,
		S:        s,
	}

	return sp, nil
}

// =============================================================================

// signedPayload is the value covered by the caller's signature.
type signedPayload struct {
	Nonce    uint64   `json:"nonce"`
	Purchase Purchase `json:"purchase"`
}

// SignedPurchase is a purchase signed by the caller asking for it to be
// authorized. The nonce is the index of the key being issued.
type SignedPurchase struct {
	Nonce    uint64   `json:"nonce"`    // Index of the key this purchase issues.
	Purchase Purchase `json:"purchase"` // Arguments of the purchase.
	V        *big.Int `json:"v"`        // Recovery identifier, either 29 or 30.
	R        *big.Int `json:"r"`        // First coordinate of the ECDSA signature.
	S        *big.Int `json:"s"`        // Second coordinate of the ECDSA signature.
}

// Validate verifies the signed purchase has a proper signature.
func (sp SignedPurchase) Validate() error {
	if sp.Nonce == 0 {
		return errors.New("nonce must identify the key being issued")
	}

	if err := signature.VerifySignature(sp.V, sp.R, sp.S); err != nil {
		return err
	}

	return nil
}

// FromAccount extracts the account that signed the purchase.
func (sp SignedPurchase) FromAccount() (Account, error) {
	payload := signedPayload{
		Nonce:    sp.Nonce,
		Purchase: sp.Purchase,
	}

	address, err := signature.FromAddress(payload, sp.V, sp.R, sp.S)
	return Account(address), err
}

// SignatureString returns the signature as a string.
func (sp SignedPurchase) SignatureString() string {
	return signature.SignatureString(sp.V, sp.R, sp.S)
}

// String implements the fmt.Stringer interface for logging.
func (sp SignedPurchase) String() string {
	return fmt.Sprintf("%s:%d", sp.Purchase.Buyer, sp.Nonce)
}
