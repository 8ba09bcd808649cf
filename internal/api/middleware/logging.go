package middleware

import (
	"net/http"
	"time"

	"github.com/Preton24/VehicleParking/internal/api/handlers"
)

// Logging пишет строку лога на каждый запрос и перехватывает panic
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					log.Error("%s %s - panic recovered: request_id=%s, panic=%v",
						r.Method, r.URL.Path, GetRequestID(r.Context()), p)
					handlers.RespondInternalError(rec)
				}
				log.Info("%s %s - %d (%v) request_id=%s",
					r.Method, r.URL.Path, rec.status, time.Since(start), GetRequestID(r.Context()))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
