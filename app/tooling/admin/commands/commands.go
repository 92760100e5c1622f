// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Pricer prices the key following a supply.
type Pricer interface {
	Price(supply uint64) (*uint256.Int, error)
	ToDecimal(price *uint256.Int) string
}

// Supply writes the supply restored from the journal and the price of
// the next key.
func Supply(w io.Writer, db *database.Database, p Pricer) error {
	supply := db.Supply()

	fmt.Fprintf(w, "Initial Supply: %d\n", db.InitialSupply())
	fmt.Fprintf(w, "Supply:         %d\n", supply)
	fmt.Fprintf(w, "Latest Hash:    %s\n", db.LatestRecord().Hash())

	price, err := p.Price(supply)
	if err != nil {
		fmt.Fprintf(w, "Next Key Price: %s\n", err)
		return nil
	}

	fmt.Fprintf(w, "Next Key Price: %s\n", p.ToDecimal(price))

	return nil
}

// Purchases writes the journal records issuing keys from through to. Empty
// bounds cover the whole journal.
func Purchases(w io.Writer, db *database.Database, from string, to string) error {
	start := db.InitialSupply() + 1
	end := db.Supply()

	if from != "" {
		n, err := strconv.ParseUint(from, 10, 64)
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		start = n
	}

	if to != "" {
		n, err := strconv.ParseUint(to, 10, 64)
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
		end = n
	}

	records, err := db.Range(start, end)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Fprintf(w, "Key: %d  ID: %s  Buyer: %s  Recipient: %s  Paid: %s  Required: %s  Hash: %s\n",
			r.Number, r.ID, r.Buyer, r.Recipient, r.PricePaid.Dec(), r.RequiredPrice.Dec(), r.Hash())
	}

	return nil
}
