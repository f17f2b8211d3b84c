package gatewaytest

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jake-scott/came-domo/internal/pkg/logging"
)

// TxnHeader carries the id the fake gateway gives each request
const TxnHeader = "X-Txn-ID"

type statusWriter struct {
	http.ResponseWriter

	statusCode int
	size       int
}

func (rw *statusWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size

	return size, err
}

// auditRequests logs one line per command received, at debug level so that
// test output stays quiet unless asked for
func auditRequests() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			txnID := uuid.New().String()
			startTime := time.Now()

			rw.Header().Set(TxnHeader, txnID)

			sw := &statusWriter{ResponseWriter: rw, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			logging.Logger(nil).WithFields(
				logrus.Fields{
					"entrytype": "audit",
					"status":    sw.statusCode,
					"method":    r.Method,
					"path":      r.URL.String(),
					"duration":  time.Since(startTime),
					"txnid":     txnID,
					"size":      sw.size,
				},
			).Debug(http.StatusText(sw.statusCode))
		})
	}
}

// recoverPanics turns a panicking handler into a 500, which the client sees
// as a transport error
func recoverPanics() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logging.Logger(nil).Errorf("caught panic: %v : %s", err, debug.Stack())

					http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
