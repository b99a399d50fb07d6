package types

import (
	"net/http"
)

// CommandEvent is the tracked form of a store command.
type CommandEvent struct {
	Type     string `json:"type"`
	Item     ItemId `json:"item,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Version  uint64 `json:"version"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackCommand(sessionId string, event CommandEvent)
	Close() error
}
