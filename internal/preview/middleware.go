package preview

import (
	"log/slog"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// chain applies request logging and panic recovery around a handler.
func chain(logger *slog.Logger, next http.Handler) http.Handler {
	return loggingMiddleware(logger, panicRecoveryMiddleware(logger, next))
}

// loggingMiddleware logs method, path, status and duration.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			slog.Duration("duration", time.Since(start)))
	})
}

// panicRecoveryMiddleware turns handler panics into a JSON 500.
func panicRecoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("HTTP handler panic",
					slog.Any("panic", rec),
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method))
				err := ferrors.New(ferrors.CategoryInternal, ferrors.SeverityError, "internal server error").
					WithContext("path", r.URL.Path)
				_ = writeJSON(w, http.StatusInternalServerError, errorBody(err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
