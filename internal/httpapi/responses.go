package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body returned alongside any non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorDetail.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeNotAcceptable    = "NOT_ACCEPTABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeNotImplemented   = "NOT_IMPLEMENTED"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// BadRequest reports a malformed or structurally invalid call body.
func BadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// UnsupportedMediaType reports a Content-Type header naming neither of the
// two supported encodings.
func UnsupportedMediaType(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, message)
}

// InternalError reports an unexpected failure processing an otherwise
// well-formed call.
func InternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// NotAcceptable reports that the Accept header names no media type this
// server can produce.
func NotAcceptable(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotAcceptable, ErrCodeNotAcceptable, message)
}

// NotImplemented reports a call type this server does not dispatch, or a
// connection that cannot support the streaming SUBSCRIBE response.
func NotImplemented(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotImplemented, ErrCodeNotImplemented, message)
}

// MethodNotAllowed reports a non-POST request to the call endpoint.
func MethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed, expected POST")
}

// Accepted acknowledges a non-SUBSCRIBE call with no response body,
// mirroring the wire protocol's fire-and-forget acknowledgement.
func Accepted(w http.ResponseWriter) {
	w.WriteHeader(http.StatusAccepted)
}
