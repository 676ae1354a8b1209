package server

import (
	"fmt"
	"net/http"

	"prettytrace/src/catcher"
	"prettytrace/src/report"
)

// recoverer turns a handler panic into a full error report and a 500
// response. The report goes through the catcher so every registered
// consumer (log sink, mailer, webhook, persistence, live stream) sees it.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			err, ok := rec.(error)
			if !ok {
				err = &catcher.PanicError{Value: rec}
			}
			err = report.CaptureDepth(err, report.Vars{
				"method": r.Method,
				"path":   r.URL.Path,
			}, 0)
			s.catcher.Handle(err)

			http.Error(w, fmt.Sprintf("internal server error: %v", rec), http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
