package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

func NewRouter(h *Handler, l logger.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(l))

	r.HandleFunc("/ratings", h.SubmitRating).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	return r
}

func requestLogger(l logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			l.Infof(r.Context(), "%s %s -> %d (%s)",
				r.Method, r.URL.Path, ww.statusCode, time.Since(start))
		})
	}
}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
