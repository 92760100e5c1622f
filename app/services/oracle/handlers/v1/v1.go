// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/lockedfyi/oracle/app/services/oracle/handlers/v1/private"
	"github.com/lockedfyi/oracle/app/services/oracle/handlers/v1/public"
	"github.com/lockedfyi/oracle/business/sys/metrics"
	"github.com/lockedfyi/oracle/foundation/events"
	"github.com/lockedfyi/oracle/foundation/nameservice"
	"github.com/lockedfyi/oracle/foundation/oracle/state"
	"github.com/lockedfyi/oracle/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Metrics *metrics.Metrics
	State   *state.State
	NS      *nameservice.NameService
	Evts    *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/supply", pbl.Supply)
	app.Handle(http.MethodGet, version, "/price", pbl.KeyPrice)
	app.Handle(http.MethodGet, version, "/price/:supply", pbl.Quote)
	app.Handle(http.MethodGet, version, "/purchases/list", pbl.Purchases)
	app.Handle(http.MethodGet, version, "/purchases/list/:from/:to", pbl.Purchases)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:     cfg.Log,
		Metrics: cfg.Metrics,
		State:   cfg.State,
		NS:      cfg.NS,
	}

	app.Handle(http.MethodGet, version, "/hook/status", prv.Status)
	app.Handle(http.MethodPost, version, "/hook/authorize", prv.AuthorizePurchase)
}
