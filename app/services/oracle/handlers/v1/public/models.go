package public

import (
	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

type supplyInfo struct {
	Lock          database.Account `json:"lock"`
	LockName      string           `json:"lock_name"`
	InitialSupply uint64           `json:"initial_supply"`
	Supply        uint64           `json:"supply"`
	LatestHash    string           `json:"latest_hash"`
}

type priceInfo struct {
	Supply   uint64       `json:"supply"`
	KeyIndex uint64       `json:"key_index"`
	Price    *uint256.Int `json:"price"`
	Decimal  string       `json:"decimal"`
}

type purchase struct {
	Number        uint64           `json:"number"`
	ID            string           `json:"id"`
	PrevHash      string           `json:"prev_hash"`
	Hash          string           `json:"hash"`
	Buyer         database.Account `json:"buyer"`
	BuyerName     string           `json:"buyer_name"`
	Recipient     database.Account `json:"recipient"`
	RecipientName string           `json:"recipient_name"`
	Referrer      database.Account `json:"referrer"`
	PricePaid     *uint256.Int     `json:"price_paid"`
	RequiredPrice *uint256.Int     `json:"required_price"`
	Data          []byte           `json:"data"`
	TimeStamp     uint64           `json:"timestamp"`
}
