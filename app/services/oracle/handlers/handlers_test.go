package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/lockedfyi/oracle/app/services/oracle/handlers"
	"github.com/lockedfyi/oracle/business/sys/metrics"
	"github.com/lockedfyi/oracle/foundation/events"
	"github.com/lockedfyi/oracle/foundation/logger"
	"github.com/lockedfyi/oracle/foundation/nameservice"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/lockedfyi/oracle/foundation/oracle/database/storage/memory"
	"github.com/lockedfyi/oracle/foundation/oracle/state"
	"github.com/stretchr/testify/require"
)

const (
	lockECDSA = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	lock      = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
	buyer     = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
)

type oracle struct {
	public  http.Handler
	private http.Handler
	debug   http.Handler
	state   *state.State
}

func newOracle(t *testing.T, initial uint64) oracle {
	log := logger.NewNop()
	m := metrics.New("test")

	root := t.TempDir()
	pk, err := crypto.HexToECDSA(lockECDSA)
	require.NoError(t, err)
	require.NoError(t, crypto.SaveECDSA(filepath.Join(root, "lock.ecdsa"), pk))

	ns, err := nameservice.New(root)
	require.NoError(t, err)

	st, err := state.New(state.Config{
		Lock:          lock,
		InitialSupply: initial,
		Serializer:    memory.New(),
	})
	require.NoError(t, err)

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		Metrics:  m,
		State:    st,
		NS:       ns,
		Evts:     events.New(),
		Origin:   "*",
	}

	return oracle{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, m, st),
		state:   st,
	}
}

func do(t *testing.T, h http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, &buf))

	return w
}

func signed(t *testing.T, nonce uint64, price string) database.SignedPurchase {
	pk, err := crypto.HexToECDSA(lockECDSA)
	require.NoError(t, err)

	p, err := database.NewPurchase(buyer, buyer, "", uint256.MustFromDecimal(price), []byte("note"))
	require.NoError(t, err)

	sp, err := p.Sign(nonce, pk)
	require.NoError(t, err)

	return sp
}

// =============================================================================

func Test_PublicReads(t *testing.T) {
	o := newOracle(t, 9)

	w := do(t, o.public, http.MethodGet, "/v1/supply", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"lock":"`+lock+`","lock_name":"lock","initial_supply":9,"supply":9,"latest_hash":"0x0000000000000000000000000000000000000000000000000000000000000000"}`, w.Body.String())

	w = do(t, o.public, http.MethodGet, "/v1/price", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var price struct {
		Supply   uint64 `json:"supply"`
		KeyIndex uint64 `json:"key_index"`
		Price    string `json:"price"`
		Decimal  string `json:"decimal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &price))
	require.Equal(t, uint64(10), price.KeyIndex)
	require.Equal(t, "1000000000000000104", price.Price)
	require.Equal(t, "1.000000000000000104", price.Decimal)

	w = do(t, o.public, http.MethodGet, "/v1/price/999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"decimal":"3.`)

	w = do(t, o.public, http.MethodGet, "/v1/price/bill", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, o.public, http.MethodGet, "/v1/price/9223372036854775807", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, o.public, http.MethodGet, "/v1/purchases/list", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, o.public, http.MethodGet, "/v1/purchases/list/5/2", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_Authorize(t *testing.T) {
	o := newOracle(t, 9)

	t.Run("authorized", func(t *testing.T) {
		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", signed(t, 10, "1000000000000000104"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rcpt struct {
			KeyIndex uint64 `json:"key_index"`
			Supply   uint64 `json:"supply"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rcpt))
		require.Equal(t, uint64(10), rcpt.KeyIndex)
		require.Equal(t, uint64(10), o.state.CurrentSupply())
	})

	t.Run("replayed", func(t *testing.T) {
		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", signed(t, 10, "1000000000000000104"))
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("price", func(t *testing.T) {
		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", signed(t, 11, "1"))
		require.Equal(t, http.StatusPaymentRequired, w.Code)
		require.Equal(t, uint64(10), o.state.CurrentSupply())
	})

	t.Run("unauthorized", func(t *testing.T) {
		sp := signed(t, 11, "9000000000000000000")
		sp.Purchase.Data = []byte("tampered")

		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", sp)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, uint64(10), o.state.CurrentSupply())
	})

	t.Run("unauthorized stale nonce", func(t *testing.T) {
		sp := signed(t, 55, "9000000000000000000")
		sp.Purchase.Data = []byte("tampered")

		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", sp)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
		require.Equal(t, uint64(10), o.state.CurrentSupply())
	})

	t.Run("validation", func(t *testing.T) {
		body := map[string]any{
			"nonce":    11,
			"purchase": map[string]any{"buyer": "bill", "recipient": buyer},
			"v":        29,
			"r":        1,
			"s":        1,
		}

		w := do(t, o.private, http.MethodPost, "/v1/hook/authorize", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), `"buyer"`)
	})

	t.Run("list", func(t *testing.T) {
		w := do(t, o.public, http.MethodGet, "/v1/purchases/list/1/latest", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"number":10`)
	})

	t.Run("status", func(t *testing.T) {
		w := do(t, o.private, http.MethodGet, "/v1/hook/status", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"next_key":11`)
	})
}

func Test_Debug(t *testing.T) {
	o := newOracle(t, 0)

	w := do(t, o.debug, http.MethodGet, "/debug/readiness", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok","supply":0}`, w.Body.String())

	w = do(t, o.debug, http.MethodGet, "/debug/liveness", nil)
	require.Equal(t, http.StatusOK, w.Code)

	do(t, o.public, http.MethodGet, "/v1/supply", nil)

	w = do(t, o.debug, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `test_requests_total{route="GET /v1/supply"} 1`)
}
