package httptransport

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// logRequests wraps next with request/response tracing in the same
// shape as a gorilla/mux request logger middleware: one Info line
// per request, emitted after the handler completes.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.RequestURI,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("snap http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
