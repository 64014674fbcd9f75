package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorEnvelope is the error body returned by every emulator endpoint.
// Message is an upper-snake-case code optionally followed by " : detail".
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner error object.
type ErrorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors"`
}

// ErrorDetail is one entry in ErrorBody.Errors.
type ErrorDetail struct {
	Message string `json:"message"`
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the backend error envelope. detail may be empty.
func WriteError(w http.ResponseWriter, status int, code, detail string) {
	msg := code
	if detail != "" {
		msg = code + " : " + detail
	}
	WriteJSON(w, status, ErrorEnvelope{Error: ErrorBody{
		Code:    status,
		Message: msg,
		Errors:  []ErrorDetail{{Message: msg, Domain: "global", Reason: "invalid"}},
	}})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Token responses must never be cached.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// DecodeJSON decodes a size-limited JSON request body into v. Unknown
// fields are ignored, real clients send more than the emulator reads.
func DecodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("unsupported content type %q", ct)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}
