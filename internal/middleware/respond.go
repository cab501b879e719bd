package middleware

import (
	"encoding/json"
	"net/http"
)

// writeFail writes the API's client-error envelope. It mirrors the handler
// package's format so rejections from middleware look like any other 4xx.
func writeFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "fail",
		"message": message,
	})
}
