package httpapi

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform response shape: {success, data?|error?, count?}.
type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Count   *int           `json:"count,omitempty"`
	Token   string         `json:"token,omitempty"`
	Error   string         `json:"error,omitempty"`
	Errors  map[string]any `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, status int, data any, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

func writeToken(w http.ResponseWriter, status int, token string) {
	writeJSON(w, status, envelope{Success: true, Token: token})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeFieldErrors(w http.ResponseWriter, status int, message string, fields map[string]any) {
	writeJSON(w, status, envelope{Success: false, Error: message, Errors: fields})
}
