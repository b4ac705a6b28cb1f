package server

import (
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/hsn0918/r3m/pkg/logger"
)

// Response is the uniform JSON envelope of the HTTP surface.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	body, err := sonic.Marshal(resp)
	if err != nil {
		logger.Get().Error("response marshal failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Get().Warn("response write failed", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message, Data: nil})
}
