package server

import (
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/matst80/slask-shelf/pkg/common"
	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/stats"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
)

const maxBodySize = 1 << 20

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, common.BadRequest(errors.Wrap(err, "read body"))
	}
	return data, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := jsoncompat.Unmarshal(data, out); err != nil {
		return common.BadRequest(errors.Wrap(err, "invalid json"))
	}
	return nil
}

func (ws *ShelfServer) decodeItem(w http.ResponseWriter, r *http.Request) (types.CatalogItem, error) {
	var item types.CatalogItem
	if err := decodeBody(w, r, &item); err != nil {
		return item, err
	}
	resolved, err := ws.Catalog.Resolve(item)
	if err != nil {
		return item, common.BadRequest(err)
	}
	return resolved, nil
}

func pathId(r *http.Request) (types.ItemId, error) {
	id := r.PathValue("id")
	if id == "" {
		return "", common.BadRequest(errors.New("missing id"))
	}
	return types.ItemId(id), nil
}

func (ws *ShelfServer) GetState(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.Sessions.Get(r.Context(), sessionId).Snapshot())
}

func (ws *ShelfServer) ResetSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if err := ws.Sessions.Remove(r.Context(), sessionId); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *ShelfServer) ToggleTheme(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.dispatch(r, sessionId, store.ToggleTheme{}))
}

func (ws *ShelfServer) UpdateUser(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var patch types.User
	if err := decodeBody(w, r, &patch); err != nil {
		return err
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.UpdateUser{Patch: patch}))
}

func (ws *ShelfServer) AddFavorite(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	item, err := ws.decodeItem(w, r)
	if err != nil {
		return err
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.AddToFavorites{Item: item}))
}

func (ws *ShelfServer) RemoveFavorite(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.RemoveFromFavorites{Id: id}))
}

func (ws *ShelfServer) ClearFavorites(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.dispatch(r, sessionId, store.ClearFavorites{}))
}

func (ws *ShelfServer) AddToCart(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	item, err := ws.decodeItem(w, r)
	if err != nil {
		return err
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.AddToCart{Item: item}))
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (ws *ShelfServer) UpdateCartQuantity(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if req.Quantity == nil {
		return common.BadRequest(errors.New("missing quantity"))
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.UpdateCartQuantity{Id: id, Quantity: *req.Quantity}))
}

func (ws *ShelfServer) RemoveFromCart(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	return enc.Encode(ws.dispatch(r, sessionId, store.RemoveFromCart{Id: id}))
}

func (ws *ShelfServer) ClearCart(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.dispatch(r, sessionId, store.ClearCart{}))
}

// Dispatch applies a raw {type, payload} action.
func (ws *ShelfServer) Dispatch(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	action, err := store.DecodeAction(data)
	if err != nil {
		return common.BadRequest(err)
	}
	action, err = ws.Catalog.ResolveAction(action)
	if err != nil {
		return common.BadRequest(err)
	}
	return enc.Encode(ws.dispatch(r, sessionId, action))
}

func (ws *ShelfServer) CartStats(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(stats.CartTotals(ws.Sessions.Get(r.Context(), sessionId).Snapshot()))
}

func (ws *ShelfServer) FavoriteStats(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(stats.FavoritesBreakdown(ws.Sessions.Get(r.Context(), sessionId).Snapshot()))
}

func (ws *ShelfServer) Report(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	var opts stats.FilterOptions
	if err := queryDecoder.Decode(&opts, r.URL.Query()); err != nil {
		return common.BadRequest(errors.Wrap(err, "invalid query"))
	}
	reportsTotal.Inc()
	return enc.Encode(stats.BuildReport(ws.Sessions.Get(r.Context(), sessionId).Snapshot(), opts))
}

func (ws *ShelfServer) GetCatalog(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	return enc.Encode(ws.Catalog.All())
}

func (ws *ShelfServer) GetCatalogItem(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	id, err := pathId(r)
	if err != nil {
		return err
	}
	item, ok := ws.Catalog.Get(id)
	if !ok {
		return common.NotFound(errors.Wrapf(catalog.ErrUnknownItem, "id %s", id))
	}
	return enc.Encode(item)
}
