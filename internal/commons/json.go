package commons

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Lutefd/nbu-rates/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type statusErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	if code > 499 {
		logger.Errorf("responding with %d error: %s", code, msg)
	}
	RespondWithJSON(w, code, errorResponse{
		Error: msg,
	})
}

// RespondWithStatusError writes the {"status":"error",...} envelope used by
// the rate endpoints.
func RespondWithStatusError(w http.ResponseWriter, code int, msg string, errs []string) {
	if code > 499 {
		logger.Errorf("responding with %d error: %s", code, msg)
	}
	RespondWithJSON(w, code, statusErrorResponse{
		Status:  StatusError,
		Message: msg,
		Errors:  errs,
	})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		log.Printf("error marshalling JSON: %s", err)
		w.WriteHeader(500)
		return
	}
	w.WriteHeader(code)
	w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}
