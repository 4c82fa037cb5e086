package v1

import (
	"context"
	"net/http"
	"time"
)

// MiddlewareAddedValidation decodes and validates the intake webhook body
// before the handler runs.
func MiddlewareAddedValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body addedBody
		if err := decodeJSONStrict(w, r, &body, 1<<20, "application/json"); err != nil {
			markErr(w, err)
			if err == ErrContentType {
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
				return
			}
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if body.NZBID <= 0 {
			markErr(w, ErrNZBIDJSON)
			http.Error(w, ErrNZBIDJSON.Error(), http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyAdded{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *QueueHandler) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rw := &rwLogger{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		if rw.status == 0 {
			rw.status = http.StatusOK
		}
		timeElapsed := time.Since(startTime)
		hErr := rw.err
		if hErr != nil {
			h.l.Error(hErr.Error(),
				"method", r.Method,
				"url", r.URL.Path,
				"status", rw.status,
				"remote", r.RemoteAddr,
				"ua", r.UserAgent(),
				"dur_ms", timeElapsed.Milliseconds(),
				"bytes", rw.bytes)
			return
		}

		h.l.Info("", "method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"remote", r.RemoteAddr,
			"ua", r.UserAgent(),
			"dur_ms", timeElapsed.Milliseconds(),
			"bytes", rw.bytes)
	})
}
