package api

import (
	"encoding/json"
	"net/http"

	"codebrush/pkg/testrun"
)

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, testrun.ErrorResponse{Error: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeBytes(w, status, mustJSON(payload))
}

func writeBytes(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func mustJSON(payload any) []byte {
	data, _ := json.Marshal(payload)
	return data
}
