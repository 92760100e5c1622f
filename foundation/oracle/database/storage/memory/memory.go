// Package memory implements the ability to read and write journal records
// to memory using a slice.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// Memory represents the serialization implementation for reading and storing
// records in memory using a slice. This implements the database.Serializer
// interface.
type Memory struct {
	mu      sync.RWMutex
	records []database.Record
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified record and stores it in memory. Records must
// be written in key order.
func (m *Memory) Write(record database.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l := len(m.records); l > 0 && m.records[l-1].Number+1 != record.Number {
		return errors.New("record is out of order")
	}

	m.records = append(m.records, record)

	return nil
}

// GetRecord searches the journal to locate and return the contents of
// the specified record by key number.
func (m *Memory) GetRecord(num uint64) (database.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 || num < m.records[0].Number {
		return database.Record{}, fmt.Errorf("record %d: %w", num, database.ErrNotFound)
	}

	idx := num - m.records[0].Number
	if idx >= uint64(len(m.records)) {
		return database.Record{}, fmt.Errorf("record %d: %w", num, database.ErrNotFound)
	}

	return m.records[idx], nil
}

// ForEach returns an iterator to walk through the records starting with
// the specified key number.
func (m *Memory) ForEach(start uint64) database.Iterator {
	return &memoryIterator{storage: m, current: start}
}

// Reset clears out the journal.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the records in memory. This implements the database Iterator
// interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Next record number to read.
	eoc     bool    // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from memory.
func (mi *memoryIterator) Next() (database.Record, error) {
	if mi.eoc {
		return database.Record{}, errors.New("end of journal")
	}

	record, err := mi.storage.GetRecord(mi.current)
	if err != nil {
		mi.eoc = true
	}
	mi.current++

	return record, err
}

// Done returns the end of journal value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
