// internal/app/features/shared/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/limits"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error  string                `json:"error"`
	Fields []inputval.FieldError `json:"fields,omitempty"`
}

// Write encodes v as JSON with status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) {
	Write(w, http.StatusCreated, v)
}

// Error writes {"error": msg} with status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, ErrorBody{Error: msg})
}

// Invalid writes a 400 carrying every field error of res.
func Invalid(w http.ResponseWriter, res *inputval.Result) {
	body := ErrorBody{Error: "Données invalides."}
	if res != nil {
		body.Fields = res.Errors
		if first := res.First(); first != "" {
			body.Error = first
		}
	}
	Write(w, http.StatusBadRequest, body)
}

// Decode reads a JSON body into v. Bodies over limits.MaxJSONBody, trailing data
// and malformed JSON are errors.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected data after json body")
	}
	return nil
}
