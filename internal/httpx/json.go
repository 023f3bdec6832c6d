package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aryamw/shopcarts/internal/shopcarts"
	"github.com/go-chi/chi/v5"
)

type errorResp struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResp{Status: code, Error: http.StatusText(code), Message: msg})
}

// writeDomainError maps the domain taxonomy onto status codes:
// ValidationError -> 400, ErrNotFound -> 404, anything else -> 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case shopcarts.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shopcarts.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON rejects unknown fields and wrong-typed values so bad bodies
// fail at the boundary instead of half-applying.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// trailing garbage after the object is also a bad body
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must be a single JSON object")
	}
	return nil
}

// pathID parses a numeric path segment. A non-numeric id can never match a
// stored record, so it reads as NotFound.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}
