// Package pebbledb implements the ability to read and write journal records
// using a pebble key-value store. Records are keyed by their big endian key
// number so they are kept in key order.
package pebbledb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// recordPrefix namespaces the record keys inside the store.
const recordPrefix = 'r'

// Pebble represents the serialization implementation for reading and
// storing records in a pebble database. This implements the
// database.Serializer interface.
type Pebble struct {
	db *pebble.DB
}

// New opens or creates the pebble database at the specified path.
func New(dbPath string) (*Pebble, error) {
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening pebble database: %w", err)
	}

	return &Pebble{db: db}, nil
}

// Close flushes and closes the pebble database.
func (p *Pebble) Close() error {
	return p.db.Close()
}

// Write stores the record under its key number. Writes are synced so an
// authorized purchase is never lost on a crash.
func (p *Pebble) Write(record database.Record) error {
	key := recordKey(record.Number)

	_, closer, err := p.db.Get(key)
	switch {
	case err == nil:
		closer.Close()
		return fmt.Errorf("record %d already exists", record.Number)
	case !errors.Is(err, pebble.ErrNotFound):
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return p.db.Set(key, data, pebble.Sync)
}

// GetRecord returns the record stored under the specified key number.
func (p *Pebble) GetRecord(num uint64) (database.Record, error) {
	data, closer, err := p.db.Get(recordKey(num))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return database.Record{}, fmt.Errorf("record %d: %w", num, database.ErrNotFound)
		}
		return database.Record{}, err
	}
	defer closer.Close()

	// The returned slice is only valid until the closer is called.
	var record database.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return database.Record{}, err
	}

	return record, nil
}

// ForEach returns an iterator to walk through the records starting with
// the specified key number.
func (p *Pebble) ForEach(start uint64) database.Iterator {
	return &pebbleIterator{store: p, current: start}
}

// Reset deletes every record from the store.
func (p *Pebble) Reset() error {
	end := append(recordKey(math.MaxUint64), 0)
	return p.db.DeleteRange(recordKey(0), end, pebble.Sync)
}

// recordKey builds the store key for the specified key number.
func recordKey(num uint64) []byte {
	key := make([]byte, 9)
	key[0] = recordPrefix
	binary.BigEndian.PutUint64(key[1:], num)
	return key
}

// =============================================================================

// pebbleIterator walks through the records in key order. This implements
// the database Iterator interface.
type pebbleIterator struct {
	store   *Pebble // Access to the pebble storage API.
	current uint64  // Next record number to read.
	eoc     bool    // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from the store.
func (pi *pebbleIterator) Next() (database.Record, error) {
	if pi.eoc {
		return database.Record{}, errors.New("end of journal")
	}

	record, err := pi.store.GetRecord(pi.current)
	if errors.Is(err, database.ErrNotFound) {
		pi.eoc = true
	}
	pi.current++

	return record, err
}

// Done returns the end of journal value.
func (pi *pebbleIterator) Done() bool {
	return pi.eoc
}
