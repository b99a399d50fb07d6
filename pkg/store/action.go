package store

import (
	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
)

type ActionType string

const (
	ToggleThemeType         ActionType = "TOGGLE_THEME"
	AddToFavoritesType      ActionType = "ADD_TO_FAVORITES"
	RemoveFromFavoritesType ActionType = "REMOVE_FROM_FAVORITES"
	ClearFavoritesType      ActionType = "CLEAR_FAVORITES"
	AddToCartType           ActionType = "ADD_TO_CART"
	RemoveFromCartType      ActionType = "REMOVE_FROM_CART"
	UpdateCartQuantityType  ActionType = "UPDATE_CART_QUANTITY"
	ClearCartType           ActionType = "CLEAR_CART"
	UpdateUserType          ActionType = "UPDATE_USER"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a store command. The set of actions is closed; Reduce knows
// how to apply every one of them.
type Action interface {
	Type() ActionType
	reduce(s Snapshot) (Snapshot, bool)
}

type ToggleTheme struct{}

type AddToFavorites struct {
	Item types.CatalogItem
}

type RemoveFromFavorites struct {
	Id types.ItemId
}

type ClearFavorites struct{}

type AddToCart struct {
	Item types.CatalogItem
}

type RemoveFromCart struct {
	Id types.ItemId
}

type UpdateCartQuantity struct {
	Id       types.ItemId
	Quantity int
}

type ClearCart struct{}

type UpdateUser struct {
	Patch types.User
}

func (ToggleTheme) Type() ActionType         { return ToggleThemeType }
func (AddToFavorites) Type() ActionType      { return AddToFavoritesType }
func (RemoveFromFavorites) Type() ActionType { return RemoveFromFavoritesType }
func (ClearFavorites) Type() ActionType      { return ClearFavoritesType }
func (AddToCart) Type() ActionType           { return AddToCartType }
func (RemoveFromCart) Type() ActionType      { return RemoveFromCartType }
func (UpdateCartQuantity) Type() ActionType  { return UpdateCartQuantityType }
func (ClearCart) Type() ActionType           { return ClearCartType }
func (UpdateUser) Type() ActionType          { return UpdateUserType }

type quantityPayload struct {
	ItemId   types.ItemId `json:"itemId" yaml:"itemId"`
	Quantity int          `json:"quantity" yaml:"quantity"`
}

// Envelope is the wire form of an action: {"type": ..., "payload": ...}.
type Envelope struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload,omitempty"`
}

func ToEnvelope(a Action) Envelope {
	env := Envelope{Type: a.Type()}
	switch act := a.(type) {
	case AddToFavorites:
		env.Payload = act.Item
	case AddToCart:
		env.Payload = act.Item
	case RemoveFromFavorites:
		env.Payload = act.Id
	case RemoveFromCart:
		env.Payload = act.Id
	case UpdateCartQuantity:
		env.Payload = quantityPayload{ItemId: act.Id, Quantity: act.Quantity}
	case UpdateUser:
		env.Payload = act.Patch
	}
	return env
}

func EncodeAction(a Action) ([]byte, error) {
	return jsoncompat.Marshal(ToEnvelope(a))
}

type rawEnvelope struct {
	Type    ActionType `json:"type"`
	Payload rawPayload `json:"payload"`
}

type rawPayload []byte

func (p *rawPayload) UnmarshalJSON(data []byte) error {
	*p = append((*p)[:0], data...)
	return nil
}

// DecodeAction parses the wire form of an action.
func DecodeAction(data []byte) (Action, error) {
	var env rawEnvelope
	if err := jsoncompat.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decode action")
	}
	return decodePayload(env.Type, func(v any) error {
		if len(env.Payload) == 0 {
			return errors.Errorf("action %s requires a payload", env.Type)
		}
		return jsoncompat.Unmarshal(env.Payload, v)
	})
}

// DecodeActionWith builds an action of type t, reading its payload with
// decode. It lets other formats (yaml scripts) share the action mapping.
func DecodeActionWith(t ActionType, decode func(v any) error) (Action, error) {
	return decodePayload(t, decode)
}

func decodePayload(t ActionType, decode func(v any) error) (Action, error) {
	switch t {
	case ToggleThemeType:
		return ToggleTheme{}, nil
	case ClearFavoritesType:
		return ClearFavorites{}, nil
	case ClearCartType:
		return ClearCart{}, nil
	case AddToFavoritesType:
		var item types.CatalogItem
		if err := decode(&item); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return AddToFavorites{Item: item}, nil
	case AddToCartType:
		var item types.CatalogItem
		if err := decode(&item); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return AddToCart{Item: item}, nil
	case RemoveFromFavoritesType:
		var id types.ItemId
		if err := decode(&id); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return RemoveFromFavorites{Id: id}, nil
	case RemoveFromCartType:
		var id types.ItemId
		if err := decode(&id); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return RemoveFromCart{Id: id}, nil
	case UpdateCartQuantityType:
		var p quantityPayload
		if err := decode(&p); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return UpdateCartQuantity{Id: p.ItemId, Quantity: p.Quantity}, nil
	case UpdateUserType:
		var u types.User
		if err := decode(&u); err != nil {
			return nil, errors.Wrapf(err, "decode %s payload", t)
		}
		return UpdateUser{Patch: u}, nil
	}
	return nil, errors.Wrapf(ErrUnknownAction, "%q", t)
}

// Describe returns the tracking form of an action applied at version.
func Describe(a Action, version uint64) types.CommandEvent {
	ev := types.CommandEvent{Type: string(a.Type()), Version: version}
	switch act := a.(type) {
	case AddToFavorites:
		ev.Item = act.Item.Id
	case AddToCart:
		ev.Item = act.Item.Id
		ev.Quantity = 1
	case RemoveFromFavorites:
		ev.Item = act.Id
	case RemoveFromCart:
		ev.Item = act.Id
	case UpdateCartQuantity:
		ev.Item = act.Id
		ev.Quantity = act.Quantity
	}
	return ev
}
