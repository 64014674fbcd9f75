package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/httpx"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// Codes written by the HTTP layer itself.
const (
	codeInvalidArgument = "INVALID_ARGUMENT"
	codeInternalError   = "INTERNAL_ERROR"
)

var weakPasswordDetail = fmt.Sprintf("Password should be at least %d characters", cryptox.MinPasswordLength)

// writeServiceError maps service errors onto the backend error envelope.
// Unknown errors are logged and reported as INTERNAL_ERROR.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, known := range service.BackendErrors {
		if !errors.Is(err, known) {
			continue
		}
		detail := ""
		if known == service.ErrWeakPassword {
			detail = weakPasswordDetail
		}
		httpx.WriteError(w, http.StatusBadRequest, known.Error(), detail)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, codeInternalError, "")
}

// writeDecodeError reports an unreadable request body.
func writeDecodeError(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, codeInvalidArgument, "Invalid JSON payload received. "+err.Error())
}
