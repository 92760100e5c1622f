// Package state is the core API for the price oracle and implements all the
// business rules for authorizing key purchases against the bonding curve.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lockedfyi/oracle/foundation/oracle/curve"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// EventHandler defines a function that is called when events
// occur in the processing of purchases.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the oracle.
type Config struct {
	Lock          database.Account
	InitialSupply uint64
	Curve         *curve.Curve
	Serializer    database.Serializer
	EvHandler     EventHandler
}

// State manages the supply counter for a single lock.
type State struct {
	mu sync.Mutex

	lock      database.Account
	curve     curve.Curve
	evHandler EventHandler

	db *database.Database
}

// New constructs the oracle state and restores the supply from the journal.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	lock, err := database.ToAccount(string(cfg.Lock))
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}

	if cfg.Serializer == nil {
		return nil, errors.New("a serializer is required")
	}

	if cfg.InitialSupply > curve.MaxSupply {
		return nil, fmt.Errorf("initial supply %d exceeds %d", cfg.InitialSupply, uint64(curve.MaxSupply))
	}

	crv := curve.Default
	if cfg.Curve != nil {
		crv = *cfg.Curve
	}

	// Replay the journal to recover every purchase authorized since the
	// oracle was deployed.
	db, err := database.New(cfg.InitialSupply, cfg.Serializer, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		lock:      lock,
		curve:     crv,
		evHandler: ev,
		db:        db,
	}

	ev("state: New: lock[%s]: initial[%d]: supply[%d]", lock, cfg.InitialSupply, db.Supply())

	return &state, nil
}

// Shutdown cleanly brings the oracle down. It waits for an authorization
// in flight to finish before the journal is closed.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	return s.db.Close()
}

// Lock returns the account of the lock this oracle serves.
func (s *State) Lock() database.Account {
	return s.lock
}

// Curve returns the bonding curve used to price keys.
func (s *State) Curve() curve.Curve {
	return s.curve
}
