package private

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/business/sys/validate"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

type purchase struct {
	Buyer     string       `json:"buyer" validate:"required,account"`
	Recipient string       `json:"recipient" validate:"required,account"`
	Referrer  string       `json:"referrer" validate:"omitempty,account"`
	Price     *uint256.Int `json:"price"`
	Data      []byte       `json:"data"`
}

// authorizeRequest is a purchase signed by the lock. The fields are kept
// exactly as sent so the signature can be recovered.
type authorizeRequest struct {
	Nonce    uint64   `json:"nonce" validate:"required"`
	Purchase purchase `json:"purchase"`
	V        *big.Int `json:"v" validate:"required"`
	R        *big.Int `json:"r" validate:"required"`
	S        *big.Int `json:"s" validate:"required"`
}

// Validate checks the request against its validation tags.
func (ar authorizeRequest) Validate() error {
	return validate.Check(ar)
}

func toSignedPurchase(ar authorizeRequest) database.SignedPurchase {
	return database.SignedPurchase{
		Nonce: ar.Nonce,
		Purchase: database.Purchase{
			Buyer:     database.Account(ar.Purchase.Buyer),
			Recipient: database.Account(ar.Purchase.Recipient),
			Referrer:  database.Account(ar.Purchase.Referrer),
			Price:     ar.Purchase.Price,
			Data:      ar.Purchase.Data,
		},
		V: ar.V,
		R: ar.R,
		S: ar.S,
	}
}

type receipt struct {
	KeyIndex      uint64       `json:"key_index"`
	RequiredPrice *uint256.Int `json:"required_price"`
	NextKeyPrice  *uint256.Int `json:"next_key_price"`
	Supply        uint64       `json:"supply"`
	Decimal       string       `json:"decimal"`
}

type status struct {
	Lock           database.Account `json:"lock"`
	LockName       string           `json:"lock_name"`
	Supply         uint64           `json:"supply"`
	NextKey        uint64           `json:"next_key"`
	LatestPurchase string           `json:"latest_purchase"`
}
