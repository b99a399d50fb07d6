package common

import (
	"net/http"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// StatusError is an error with the http status it should be answered with.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func BadRequest(err error) error {
	return &StatusError{Code: http.StatusBadRequest, Err: err}
}

func NotFound(err error) error {
	return &StatusError{Code: http.StatusNotFound, Err: err}
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return http.StatusInternalServerError
}

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error

// JsonHandler binds the session cookie and answers errors returned by fn
// with their status code. fn must not have written a body when it fails.
func JsonHandler(signer *SessionSigner, trk types.Tracking, fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(signer, trk, w, r)
		genericHeaders(w, r)

		err := fn(w, r, sessionId, jsoncompat.NewEncoder(w))
		if err != nil {
			code := statusOf(err)
			log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": code,
			}).Warnf("Error handling request: %v", err)
			if code == http.StatusInternalServerError {
				http.Error(w, "internal error", code)
			} else {
				http.Error(w, err.Error(), code)
			}
		}
	}
}

func genericHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Cache-Control", "private, no-store")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
