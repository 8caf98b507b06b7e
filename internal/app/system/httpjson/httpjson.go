// internal/app/system/httpjson/httpjson.go

// Package httpjson writes the JSON response envelope used by every API
// endpoint and maps classified errors to status codes.
//
// The envelope shape ({success, message, data, count}) is part of the public
// API contract consumed by the SPA, so changes here are breaking changes.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Envelope is the standard response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	// Detail carries internal diagnostic info in non-production mode only.
	Detail string `json:"error,omitempty"`
}

// devMode controls whether error responses include internal detail.
// Set once at startup from bootstrap; read-only afterwards.
var devMode bool

// SetDevMode enables internal error detail in responses. Call once during
// startup before the handler begins serving.
func SetDevMode(on bool) { devMode = on }

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 with a message and optional data.
func OKMessage(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// OKList writes a 200 with data and a count field, the list shape the SPA
// expects from collection endpoints.
func OKList(w http.ResponseWriter, count int, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Created writes a 201 with a message and data.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindPaymentRequired:
		return http.StatusPaymentRequired
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a {success:false, message} response with the status
// code its kind maps to. Unclassified errors become 500s and are logged;
// classified errors are the domain's own refusals and are logged at debug.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	if kind == apperr.KindInternal {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Debug("request rejected",
			zap.String("kind", kind.String()),
			zap.Error(err))
	}

	body := Envelope{Success: false, Message: apperr.MessageOf(err)}
	if devMode {
		body.Detail = err.Error()
	}
	write(w, status, body)
}

// Fail writes a {success:false, message} response with an explicit status.
// Used by middleware that has a status in hand rather than a classified error.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Message: message})
}

// NotFoundHandler is the JSON 404 for undefined routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusNotFound, Envelope{Success: false, Message: "Route not found"})
}

// Decode reads a JSON request body into dst, returning a validation error on
// malformed input. Empty bodies decode to the zero value.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.KindValidation, "Malformed JSON body", err)
	}
	return nil
}
