package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// writeError maps err's code to a status and writes it.
func writeError(w http.ResponseWriter, err error) {
	code := ferrors.GetCode(err)
	_ = writeJSON(w, statusFor(code), errorBody{Error: ferrors.UserMessage(err), Code: string(code)})
}

func statusFor(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidGraph, ferrors.ErrCodeUnknownNode,
		ferrors.ErrCodeDuplicateNode, ferrors.ErrCodeInvalidPortIndex:
		return http.StatusBadRequest
	case ferrors.ErrCodeNotFound, ferrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ferrors.ErrCodeLayout:
		return http.StatusUnprocessableEntity
	case ferrors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
