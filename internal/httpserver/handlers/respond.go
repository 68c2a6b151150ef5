package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	// SessionHeader carries the search session across requests.
	SessionHeader = "X-Session-ID"
	// ProfileHeader names the history profile.
	ProfileHeader = "X-Profile"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
