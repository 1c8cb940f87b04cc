package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Recovery gibt eine Middleware zurück, die Panics abfängt und als
// 500er-Antwort beantwortet, statt die Verbindung abreißen zu lassen.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic abgefangen",
						zap.Any("fehler", rec),
						zap.ByteString("stack", debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "interner serverfehler",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
