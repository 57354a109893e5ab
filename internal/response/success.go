package response

import (
	"encoding/json"
	"net/http"

	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

// WriteSuccess encodes data as the response body without an envelope; the
// frontend consumes the documents as-is.
func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode success response", "error", err)
	}
}
