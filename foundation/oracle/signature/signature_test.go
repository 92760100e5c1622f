package signature_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lockedfyi/oracle/foundation/oracle/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	from     = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

type message struct {
	Buyer string
	Key   uint64
}

// =============================================================================

func Test_Signing(t *testing.T) {
	value := message{
		Buyer: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
		Key:   10,
	}

	t.Log("Given the need to sign and recover the signer of a message.")
	{
		pk, err := crypto.HexToECDSA(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a private key: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a private key.", success)

		v, r, s, err := signature.Sign(value, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to sign data.", success)

		if err := signature.VerifySignature(v, r, s); err != nil {
			t.Fatalf("\t%s\tShould be able to verify the signature: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to verify the signature.", success)

		addr, err := signature.FromAddress(value, v, r, s)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate from address: %s", failed, err)
		}

		if from != addr {
			t.Logf("\t%s\tgot: %s", failed, addr)
			t.Logf("\t%s\texp: %s", failed, from)
			t.Fatalf("\t%s\tShould get back the right address.", failed)
		}
		t.Logf("\t%s\tShould get back the right address.", success)

		str := signature.SignatureString(v, r, s)
		v2, r2, s2, err := signature.ToVRSFromHexSignature(str)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse the signature string: %s", failed, err)
		}

		if v.Cmp(v2) != 0 || r.Cmp(r2) != 0 || s.Cmp(s2) != 0 {
			t.Logf("\t%s\tgot: %s", failed, signature.SignatureString(v2, r2, s2))
			t.Logf("\t%s\texp: %s", failed, str)
			t.Fatalf("\t%s\tShould get back the same signature values.", failed)
		}
		t.Logf("\t%s\tShould get back the same signature values.", success)
	}
}

func Test_Tampered(t *testing.T) {
	value := message{
		Buyer: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
		Key:   10,
	}

	t.Log("Given the need to detect a message that changed after signing.")
	{
		pk, err := crypto.HexToECDSA(pkHexKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a private key: %s", failed, err)
		}

		v, r, s, err := signature.Sign(value, pk)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign data: %s", failed, err)
		}

		value.Key = 11
		addr, err := signature.FromAddress(value, v, r, s)
		if err == nil && addr == from {
			t.Fatalf("\t%s\tShould not recover the signer for changed data.", failed)
		}
		t.Logf("\t%s\tShould not recover the signer for changed data.", success)

		v.SetUint64(5)
		if err := signature.VerifySignature(v, r, s); err == nil {
			t.Fatalf("\t%s\tShould reject an invalid recovery id.", failed)
		}
		t.Logf("\t%s\tShould reject an invalid recovery id.", success)
	}
}

func Test_Hash(t *testing.T) {
	value := message{
		Buyer: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32",
		Key:   10,
	}
	hash := "0xf5e435a7cb79bb6c2ed7603cd58bde374896314c2657e26251693e6b8e7cc9d5"

	t.Log("Given the need to hash a value.")
	{
		h := signature.Hash(value)
		if h != hash {
			t.Logf("\t%s\tgot: %s", failed, h)
			t.Logf("\t%s\texp: %s", failed, hash)
			t.Fatalf("\t%s\tShould get back the right hash.", failed)
		}

		h = signature.Hash(value)
		if h != hash {
			t.Fatalf("\t%s\tShould get back the same hash twice.", failed)
		}
		t.Logf("\t%s\tShould get back the same hash twice.", success)
	}
}
