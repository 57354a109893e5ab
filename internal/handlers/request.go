package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/surenmigorskiy-ui/duo-backend/internal/errs"
)

const (
	maxJSONBytes   = 10 << 20
	maxUploadBytes = 20 << 20
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes)).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

// formFile reads an uploaded file and its content type. A missing or
// generic content type is sniffed from the data.
func formFile(r *http.Request, field string) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", errs.NewValidationError("invalid multipart form")
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errs.NewValidationError(field + " file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", errs.NewValidationError("failed to read " + field)
	}
	if len(data) == 0 {
		return nil, "", errs.NewValidationError(field + " file is empty")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
