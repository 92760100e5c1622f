// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup so logs can show friendly names for known accounts.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.Account]string
}

// New constructs a name service with the accounts from every .ecdsa key
// file found under root.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.Account]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		account := database.PublicKeyToAccount(privateKey.PublicKey)
		ns.accounts[account] = strings.TrimSuffix(filepath.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account or the account itself
// when it is unknown.
func (ns *NameService) Lookup(account database.Account) string {
	if canonical, err := database.ToAccount(string(account)); err == nil {
		account = canonical
	}

	name, exists := ns.accounts[account]
	if !exists {
		return string(account)
	}
	return name
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.Account]string {
	cpy := make(map[database.Account]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}
	return cpy
}
