package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type errResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fieldErrors maps a request field to a human-readable message.
type fieldErrors map[string]string

func statusAllowsBody(status int) bool {
	if status >= 100 && status < 200 || status == http.StatusNoContent || status == http.StatusNotModified {
		return false
	}
	return true
}

// WriteJSON writes data with the given status. The header is already sent
// when encoding fails, so the error is only useful for logging.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	w.WriteHeader(status)
	if !statusAllowsBody(status) {
		return nil
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// ReadJSON - read and decode JSON from request body into the provided data struct
// there could be error due to bad formatting, return it
//
// Unknown fields are ignored; browser clients send extra form state.
func ReadJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1024 * 1024 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		app.logger.Errorw("response write failed", "status", status, "error", err)
	}
}

func (app *application) writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	type envelope struct {
		Error errResponse `json:"error"`
	}
	app.writeJSON(w, status, envelope{Error: errResponse{
		Code:    code,
		Message: message,
	}})
}

// writeFieldErrors writes {"errors": {field: message}}.
func (app *application) writeFieldErrors(w http.ResponseWriter, status int, errs fieldErrors) {
	type envelope struct {
		Errors fieldErrors `json:"errors"`
	}
	app.writeJSON(w, status, envelope{Errors: errs})
}
