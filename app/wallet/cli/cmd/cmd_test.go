package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/stretchr/testify/require"
)

const (
	lockECDSA = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	lock      = database.Account("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	buyerAcct = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
)

// hook serves the private oracle routes used by the authorize command.
type hook struct {
	statusCalls int
	signed      []database.SignedPurchase
	reject      bool
}

func (h *hook) mux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/hook/status", func(w http.ResponseWriter, r *http.Request) {
		h.statusCalls++
		json.NewEncoder(w).Encode(hookStatus{Supply: 9, NextKey: 10})
	})

	mux.HandleFunc("/v1/hook/authorize", func(w http.ResponseWriter, r *http.Request) {
		if h.reject {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(errorResponse{Error: "caller is not the configured lock"})
			return
		}

		var sp database.SignedPurchase
		if err := json.NewDecoder(r.Body).Decode(&sp); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
			return
		}
		h.signed = append(h.signed, sp)

		rcpt := receipt{
			KeyIndex:      sp.Nonce,
			RequiredPrice: "1000000000000000104",
			NextKeyPrice:  "1041392685158225145",
			Supply:        sp.Nonce,
			Decimal:       "1.000000000000000104",
		}
		json.NewEncoder(w).Encode(rcpt)
	})

	return mux
}

func Test_Authorize(t *testing.T) {
	pk, err := crypto.HexToECDSA(lockECDSA)
	require.NoError(t, err)

	var h hook
	srv := httptest.NewServer(h.mux())
	defer srv.Close()

	privateURL = srv.URL
	buyer = buyerAcct
	recipient = ""
	referrer = ""
	price = "1000000000000000104"
	data = nil

	t.Run("next key from status", func(t *testing.T) {
		nonce = 0

		var out bytes.Buffer
		require.NoError(t, authorizeWithDetails(&out, pk))

		require.Equal(t, 1, h.statusCalls)
		require.Len(t, h.signed, 1)

		sp := h.signed[0]
		require.Equal(t, uint64(10), sp.Nonce)
		require.Equal(t, database.Account(buyerAcct), sp.Purchase.Recipient)
		require.Equal(t, "1000000000000000104", sp.Purchase.Price.Dec())

		caller, err := sp.FromAccount()
		require.NoError(t, err)
		require.True(t, lock.Equal(caller), "signed by %s", caller)

		require.Contains(t, out.String(), "Authorized key 10 at 1.000000000000000104")
	})

	t.Run("explicit nonce", func(t *testing.T) {
		nonce = 42
		defer func() { nonce = 0 }()

		var out bytes.Buffer
		require.NoError(t, authorizeWithDetails(&out, pk))

		require.Equal(t, 1, h.statusCalls)
		require.Len(t, h.signed, 2)
		require.Equal(t, uint64(42), h.signed[1].Nonce)
	})

	t.Run("rejected", func(t *testing.T) {
		h.reject = true
		defer func() { h.reject = false }()

		var out bytes.Buffer
		err := authorizeWithDetails(&out, pk)
		require.ErrorContains(t, err, "status 403: caller is not the configured lock")
		require.Empty(t, out.String())
	})

	t.Run("bad price", func(t *testing.T) {
		price = "one"
		defer func() { price = "1000000000000000104" }()

		var out bytes.Buffer
		require.Error(t, authorizeWithDetails(&out, pk))
		require.Len(t, h.signed, 2)
	})
}

func Test_SupplyAndQuote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/supply", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(supplyInfo{Lock: string(lock), LockName: "lock", InitialSupply: 9, Supply: 12})
	})
	mux.HandleFunc("/v1/price", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(priceInfo{Supply: 12, KeyIndex: 13, Price: "1113282752559307398", Decimal: "1.113282752559307398"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url = srv.URL

	var out bytes.Buffer
	supplyCmd.SetOut(&out)
	supplyRun(supplyCmd, nil)

	require.Contains(t, out.String(), "Initial: 9\n")
	require.Contains(t, out.String(), "Supply:  12\n")

	out.Reset()
	quoteCmd.SetOut(&out)
	quoteRun(quoteCmd, nil)

	require.Equal(t, "Key 13: 1.113282752559307398 (1113282752559307398)\n", out.String())

	// A supply given on the command line is priced locally.
	out.Reset()
	require.NoError(t, quoteCmd.Flags().Set("supply", "9"))
	quoteRun(quoteCmd, nil)

	require.Equal(t, "Key 10: 1.000000000000000104 (1000000000000000104)\n", out.String())
}
