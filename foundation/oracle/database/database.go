// Package database handles the purchase journal that backs the price
// oracle's supply counter. Every authorized purchase is appended as a
// record and the journal is replayed at startup to restore the supply.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by a Serializer when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading the purchase journal.
type Serializer interface {
	Write(record Record) error
	GetRecord(num uint64) (Record, error)
	ForEach(start uint64) Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the records.
type Iterator interface {
	Next() (Record, error)
	Done() bool
}

// =============================================================================

// Database manages the purchase journal for a single oracle.
type Database struct {
	mu sync.RWMutex

	initialSupply uint64
	supply        uint64
	latest        Record

	serializer Serializer
}

// New constructs a database and replays the journal held by the serializer.
// Replay starts with the record issuing key initialSupply + 1 and every
// record is validated against the one before it.
func New(initialSupply uint64, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		initialSupply: initialSupply,
		supply:        initialSupply,
		serializer:    serializer,
	}

	iter := db.serializer.ForEach(initialSupply + 1)
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", db.supply+1, err)
		}

		if err := record.ValidateRecord(db.latest, db.supply); err != nil {
			return nil, err
		}

		db.latest = record
		db.supply = record.Number
	}

	ev("database: New: replayed: records[%d]: supply[%d]", db.supply-initialSupply, db.supply)

	return &db, nil
}

// Close closes the underlying serializer.
func (db *Database) Close() error {
	return db.serializer.Close()
}

// Reset removes every record and returns the journal to the initial supply.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.serializer.Reset(); err != nil {
		return err
	}

	db.latest = Record{}
	db.supply = db.initialSupply

	return nil
}

// Supply returns the supply recorded by the journal.
func (db *Database) Supply() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.supply
}

// InitialSupply returns the supply the journal started from.
func (db *Database) InitialSupply() uint64 {
	return db.initialSupply
}

// LatestRecord returns the last record written to the journal.
func (db *Database) LatestRecord() Record {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latest
}

// Append validates the record links to the journal and writes it. The
// journal is left untouched when the write fails.
func (db *Database) Append(record Record) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := record.ValidateRecord(db.latest, db.supply); err != nil {
		return err
	}

	if err := db.serializer.Write(record); err != nil {
		return fmt.Errorf("writing record %d: %w", record.Number, err)
	}

	db.latest = record
	db.supply = record.Number

	return nil
}

// GetRecord returns the record that issued the specified key.
func (db *Database) GetRecord(num uint64) (Record, error) {
	return db.serializer.GetRecord(num)
}

// Range returns the records issuing keys from through to inclusive. Keys
// outside the journal are skipped.
func (db *Database) Range(from uint64, to uint64) ([]Record, error) {
	supply := db.Supply()

	if from <= db.initialSupply {
		from = db.initialSupply + 1
	}
	if to > supply {
		to = supply
	}

	if from > to {
		return nil, nil
	}

	records := make([]Record, 0, to-from+1)
	for num := from; num <= to; num++ {
		record, err := db.serializer.GetRecord(num)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
