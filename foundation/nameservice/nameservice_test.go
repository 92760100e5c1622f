package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lockedfyi/oracle/foundation/nameservice"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Lookup(t *testing.T) {
	t.Log("Given the need to name known accounts.")
	{
		root := t.TempDir()

		pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the key: %v", failed, err)
		}
		if err := crypto.SaveECDSA(filepath.Join(root, "lock.ecdsa"), pk); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %v", failed, err)
		}

		ns, err := nameservice.New(root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the name service: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the name service.", success)

		if name := ns.Lookup("0xdd6b972ffcc631a62cae1bb9d80b7ff429c8eba4"); name != "lock" {
			t.Fatalf("\t%s\tShould name the lock account: got[%s]", failed, name)
		}
		t.Logf("\t%s\tShould name the lock account.", success)

		const unknown = database.Account("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")
		if name := ns.Lookup(unknown); name != string(unknown) {
			t.Fatalf("\t%s\tShould return unknown accounts unchanged: got[%s]", failed, name)
		}
		t.Logf("\t%s\tShould return unknown accounts unchanged.", success)

		if len(ns.Copy()) != 1 {
			t.Fatalf("\t%s\tShould hold exactly one account.", failed)
		}
		t.Logf("\t%s\tShould hold exactly one account.", success)
	}
}
