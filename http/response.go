package http

import (
	"net/http"

	"github.com/aukilabs/gecko/protocol"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
)

const (
	ErrTypeBadRequest = "bad_request"
	ErrTypeNotFound   = "not_found"

	// Same header as the websocket client id.
	headerClientID = "X-Gecko-Client-Id"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		InternalServerError(w, errors.New("encoding response failed").Wrap(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func BadRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, ErrTypeBadRequest, err)
}

func NotFound(w http.ResponseWriter, err error) {
	writeError(w, http.StatusNotFound, ErrTypeNotFound, err)
}

func InternalServerError(w http.ResponseWriter, err error) {
	logs.Error(err)
	writeError(w, http.StatusInternalServerError, protocol.ErrTypeInternal, err)
}

func writeError(w http.ResponseWriter, status int, defaultCode string, err error) {
	b, _ := json.Marshal(ErrorResponse{
		Code:    protocol.ErrorCode(err, defaultCode),
		Message: errors.Message(err),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
