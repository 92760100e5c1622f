// Package disk implements the ability to read and write journal records to
// disk, one JSON file per record.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// Disk represents the serialization implementation for reading and storing
// records in their own separate files on disk. This implements the
// database.Serializer interface.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new record and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified record and stores it on disk in a file
// labeled with the key number. An existing record is never overwritten.
func (d *Disk) Write(record database.Record) error {

	// Marshal the record for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this record and name it based on the key number.
	path := d.getPath(record.Number)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	return store(f, path, data)
}

// file is the part of an os.File used to store a record.
type file interface {
	Write(b []byte) (int, error)
	Sync() error
	Close() error
}

// store writes the record data into f and closes it. The file at path is
// removed on any failure so the key can be written again.
func store(f file, path string, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}

	return nil
}

// GetRecord searches the journal on disk to locate and return the
// contents of the specified record by key number.
func (d *Disk) GetRecord(num uint64) (database.Record, error) {

	// Open the record file for the specified number.
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Record{}, fmt.Errorf("record %d: %w", num, database.ErrNotFound)
		}
		return database.Record{}, err
	}
	defer f.Close()

	// Decode the contents of the record.
	var record database.Record
	if err := json.NewDecoder(f).Decode(&record); err != nil {
		return database.Record{}, err
	}

	return record, nil
}

// ForEach returns an iterator to walk through the records starting with
// the specified key number.
func (d *Disk) ForEach(start uint64) database.Iterator {
	return &diskIterator{disk: d, current: start}
}

// Reset removes every record file from disk.
func (d *Disk) Reset() error {
	entries, err := os.ReadDir(d.dbPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		if _, err := strconv.ParseUint(strings.TrimSuffix(entry.Name(), ".json"), 10, 64); err != nil {
			continue
		}

		if err := os.Remove(path.Join(d.dbPath, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// getPath forms the path to the specified record.
func (d *Disk) getPath(num uint64) string {
	name := strconv.FormatUint(num, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// diskIterator represents the iteration implementation for walking
// through and reading records on disk. This implements the database
// Iterator interface.
type diskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Next record number to read.
	eoc     bool   // Represents the iterator is at the end of the journal.
}

// Next retrieves the next record from disk.
func (di *diskIterator) Next() (database.Record, error) {
	if di.eoc {
		return database.Record{}, errors.New("end of journal")
	}

	record, err := di.disk.GetRecord(di.current)
	if errors.Is(err, database.ErrNotFound) {
		di.eoc = true
	}
	di.current++

	return record, err
}

// Done returns the end of journal value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
