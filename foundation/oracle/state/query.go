package state

import (
	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// QueryLatest represents to query the latest purchase in the journal.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// CurrentSupply returns the number of keys issued so far. It never changes
// the supply.
func (s *State) CurrentSupply() uint64 {
	return s.db.Supply()
}

// InitialSupply returns the supply the oracle was deployed with.
func (s *State) InitialSupply() uint64 {
	return s.db.InitialSupply()
}

// KeyPrice returns the price the lock should quote for the next key.
func (s *State) KeyPrice() (*uint256.Int, error) {
	return s.curve.Price(s.db.Supply())
}

// Quote returns the price of the next key at the specified supply.
func (s *State) Quote(supply uint64) (*uint256.Int, error) {
	return s.curve.Price(supply)
}

// LatestPurchase returns the last purchase written to the journal.
func (s *State) LatestPurchase() database.Record {
	return s.db.LatestRecord()
}

// QueryPurchases returns the journal records issuing keys from through to.
// QueryLatest can be used for either bound.
func (s *State) QueryPurchases(from uint64, to uint64) ([]database.Record, error) {
	if from == QueryLatest {
		from = s.db.Supply()
		to = from
	}
	if to == QueryLatest {
		to = s.db.Supply()
	}

	return s.db.Range(from, to)
}
