// Package private maintains the group of handlers for the lock's hook.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lockedfyi/oracle/business/sys/metrics"
	"github.com/lockedfyi/oracle/business/sys/validate"
	"github.com/lockedfyi/oracle/business/web/errs"
	"github.com/lockedfyi/oracle/foundation/fixedpoint"
	"github.com/lockedfyi/oracle/foundation/nameservice"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/lockedfyi/oracle/foundation/oracle/state"
	"github.com/lockedfyi/oracle/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of hook endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	State   *state.State
	NS      *nameservice.NameService
}

// Status returns the state of the hook so the lock can find the next nonce.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	lock := h.State.Lock()
	supply := h.State.CurrentSupply()

	st := status{
		Lock:           lock,
		LockName:       h.NS.Lookup(lock),
		Supply:         supply,
		NextKey:        supply + 1,
		LatestPurchase: h.State.LatestPurchase().Hash(),
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}

// AuthorizePurchase is the hook the lock calls before it issues a key.
func (h Handlers) AuthorizePurchase(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ar authorizeRequest
	if err := web.Decode(r, &ar); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	sp := toSignedPurchase(ar)
	if err := sp.Validate(); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("authorize purchase", "traceid", v.TraceID, "buyer:nonce", sp, "recipient", h.NS.Lookup(sp.Purchase.Recipient), "price", sp.Purchase.OfferedPrice().Dec())

	rcpt, err := h.State.AuthorizeSignedPurchase(sp)
	if err != nil {
		h.Metrics.AddRejected(reason(err))
		return toWebError(err)
	}

	h.Metrics.AddAuthorized(rcpt.Supply)

	resp := receipt{
		KeyIndex:      rcpt.KeyIndex,
		RequiredPrice: rcpt.RequiredPrice,
		NextKeyPrice:  rcpt.NextKeyPrice,
		Supply:        rcpt.Supply,
		Decimal:       h.State.Curve().ToDecimal(rcpt.RequiredPrice),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// toWebError maps an authorization failure onto the status returned to the
// lock. A broken journal means the supply can no longer be trusted.
func toWebError(err error) error {
	switch {
	case errors.Is(err, state.ErrUnauthorized):
		return errs.NewTrusted(err, http.StatusForbidden)

	case errors.Is(err, state.ErrPriceMismatch):
		return errs.NewTrusted(err, http.StatusPaymentRequired)

	case errors.Is(err, state.ErrStaleNonce):
		return errs.NewTrusted(err, http.StatusConflict)

	case errors.Is(err, fixedpoint.ErrOverflow), errors.Is(err, fixedpoint.ErrDomain):
		return errs.NewTrusted(err, http.StatusUnprocessableEntity)

	case errors.Is(err, database.ErrChainBroken):
		return web.NewShutdownError(fmt.Sprintf("purchase journal integrity: %s", err))
	}

	return err
}

// reason labels the rejection for metrics.
func reason(err error) string {
	switch {
	case errors.Is(err, state.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, state.ErrPriceMismatch):
		return "price"
	case errors.Is(err, state.ErrStaleNonce):
		return "nonce"
	case errors.Is(err, fixedpoint.ErrOverflow), errors.Is(err, fixedpoint.ErrDomain):
		return "overflow"
	}
	return "error"
}
