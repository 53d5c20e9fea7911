package handlers

import (
	"bytes"
	"delivery-booking-service/internal/platform/apperr"
	"delivery-booking-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
)

// Request bodies are small JSON documents; anything larger is rejected.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeAppError maps err to a status through its apperr kind. Server-side
// failures are logged with the request id; their details never reach the client.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("req_id=%s method=%s path=%s status=%d err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, status, err)
	}
	writeError(w, r, status, msg)
}

// decodeJSON strictly decodes a single JSON object from the body into v.
// When optional is set an empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if optional && len(bytes.TrimSpace(body)) == 0 {
		return true
	}

	if err := decodeStrict(body, v); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

var errTrailingData = errors.New("body must contain only one JSON object")

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	return n, err == nil
}
