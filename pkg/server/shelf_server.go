package server

import (
	"net/http"

	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/matst80/slask-shelf/pkg/common"
	"github.com/matst80/slask-shelf/pkg/session"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskshelf_commands_total",
		Help: "The total number of dispatched commands",
	}, []string{"type"})
	reportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskshelf_reports_total",
		Help: "The total number of built reports",
	})
)

type ShelfServer struct {
	Sessions *session.Registry
	Catalog  *catalog.Catalog
	Tracking types.Tracking
	Signer   *common.SessionSigner
}

func (ws *ShelfServer) dispatch(r *http.Request, sessionId string, action store.Action) store.Snapshot {
	commandsTotal.WithLabelValues(string(action.Type())).Inc()
	next, changed := ws.Sessions.Get(r.Context(), sessionId).Apply(action)
	if changed {
		log.WithFields(log.Fields{
			"session": sessionId,
			"action":  action.Type(),
			"version": next.Version(),
		}).Debug("Applied command")
		if ws.Tracking != nil {
			ws.Tracking.TrackCommand(sessionId, store.Describe(action, next.Version()))
		}
	}
	return next
}

// Handler returns the api routes, to be mounted below a prefix with
// http.StripPrefix.
func (ws *ShelfServer) Handler() *http.ServeMux {
	srv := http.NewServeMux()
	handle := func(pattern string, fn common.JsonHandlerFunc) {
		srv.HandleFunc(pattern, common.JsonHandler(ws.Signer, ws.Tracking, fn))
	}

	handle("GET /state", ws.GetState)
	handle("DELETE /session", ws.ResetSession)
	handle("POST /theme/toggle", ws.ToggleTheme)
	handle("PATCH /user", ws.UpdateUser)

	handle("POST /favorites", ws.AddFavorite)
	handle("DELETE /favorites/{id}", ws.RemoveFavorite)
	handle("DELETE /favorites", ws.ClearFavorites)

	handle("POST /cart", ws.AddToCart)
	handle("PUT /cart/{id}", ws.UpdateCartQuantity)
	handle("DELETE /cart/{id}", ws.RemoveFromCart)
	handle("DELETE /cart", ws.ClearCart)

	handle("POST /dispatch", ws.Dispatch)

	handle("GET /stats/cart", ws.CartStats)
	handle("GET /stats/favorites", ws.FavoriteStats)
	handle("GET /report", ws.Report)
	handle("GET /catalog", ws.GetCatalog)
	handle("GET /catalog/{id}", ws.GetCatalogItem)

	srv.HandleFunc("OPTIONS /", common.RespondToOptions)
	return srv
}
