// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lockedfyi/oracle/business/web/errs"
	"github.com/lockedfyi/oracle/foundation/events"
	"github.com/lockedfyi/oracle/foundation/fixedpoint"
	"github.com/lockedfyi/oracle/foundation/nameservice"
	"github.com/lockedfyi/oracle/foundation/oracle/state"
	"github.com/lockedfyi/oracle/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of oracle endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the oracle.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// This starts a ticker to send a ping to the client.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Supply returns the number of keys issued so far.
func (h Handlers) Supply(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	lock := h.State.Lock()

	info := supplyInfo{
		Lock:          lock,
		LockName:      h.NS.Lookup(lock),
		InitialSupply: h.State.InitialSupply(),
		Supply:        h.State.CurrentSupply(),
		LatestHash:    h.State.LatestPurchase().Hash(),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// KeyPrice returns the price the lock should quote for the next key.
func (h Handlers) KeyPrice(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return h.respondPrice(ctx, w, h.State.CurrentSupply())
}

// Quote returns the price of the next key at the specified supply.
func (h Handlers) Quote(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	supply, err := strconv.ParseUint(web.Param(r, "supply"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid supply: %w", err), http.StatusBadRequest)
	}

	return h.respondPrice(ctx, w, supply)
}

// Purchases returns the journal records for the specified range of keys.
// Without a range the latest purchase is returned.
func (h Handlers) Purchases(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := parseKey(web.Param(r, "from"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid from: %w", err), http.StatusBadRequest)
	}

	to, err := parseKey(web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid to: %w", err), http.StatusBadRequest)
	}

	if from != state.QueryLatest && to != state.QueryLatest && from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	records, err := h.State.QueryPurchases(from, to)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	out := make([]purchase, len(records))
	for i, rec := range records {
		out[i] = purchase{
			Number:        rec.Number,
			ID:            rec.ID,
			PrevHash:      rec.PrevHash,
			Hash:          rec.Hash(),
			Buyer:         rec.Buyer,
			BuyerName:     h.NS.Lookup(rec.Buyer),
			Recipient:     rec.Recipient,
			RecipientName: h.NS.Lookup(rec.Recipient),
			Referrer:      rec.Referrer,
			PricePaid:     rec.PricePaid,
			RequiredPrice: rec.RequiredPrice,
			Data:          rec.Data,
			TimeStamp:     rec.TimeStamp,
		}
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// =============================================================================

func (h Handlers) respondPrice(ctx context.Context, w http.ResponseWriter, supply uint64) error {
	price, err := h.State.Quote(supply)
	if err != nil {
		if errors.Is(err, fixedpoint.ErrOverflow) || errors.Is(err, fixedpoint.ErrDomain) {
			return errs.NewTrusted(err, http.StatusUnprocessableEntity)
		}
		return err
	}

	info := priceInfo{
		Supply:   supply,
		KeyIndex: supply + 1,
		Price:    price,
		Decimal:  h.State.Curve().ToDecimal(price),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// parseKey converts a key parameter, treating a missing value or "latest"
// as the latest purchase.
func parseKey(s string) (uint64, error) {
	switch s {
	case "", "latest":
		return state.QueryLatest, nil
	}

	return strconv.ParseUint(s, 10, 64)
}
