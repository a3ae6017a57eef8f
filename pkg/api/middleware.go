package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

// apiKeyMiddleware validates the X-API-Key header
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if apiKey != expectedKey {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request through slog
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// sendCreated sends a 201 JSON response
func sendCreated(w http.ResponseWriter, data interface{}) {
	sendJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

// sendDecodeError reports an inventory that could not be decoded
func sendDecodeError(w http.ResponseWriter, err error) {
	resp := APIResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    itemdata.Kind(err),
	}
	var itemErr *itemdata.ItemError
	if errors.As(err, &itemErr) {
		resp.Data = map[string]int{"index": itemErr.Index, "offset": itemErr.Offset}
	}
	sendJSON(w, http.StatusUnprocessableEntity, resp)
}

// encodeFailure is sent when a response cannot be marshalled
var encodeFailure = []byte(`{"success":false,"error":"Failed to encode response"}` + "\n")

// sendJSON marshals the full body before the status line goes out
func sendJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	body, err := json.Marshal(response)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		slog.Error("Failed to encode response", "status", statusCode, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}
