package middleware

import (
	"log"
	"net/http"
	"time"
)

// RequestLogger logs every request with its outcome and timing.
type RequestLogger struct {
	logger *log.Logger
}

// NewRequestLogger creates a request logging middleware.
func NewRequestLogger(logger *log.Logger) *RequestLogger {
	if logger == nil {
		logger = log.Default()
	}
	return &RequestLogger{logger: logger}
}

// Log records method, path, status, duration and client details.
func (rl *RequestLogger) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ip := clientIP(r)

		// Wrap the response writer to capture the status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		rl.logger.Printf("[%s] %s %s %d %v - IP: %s, User-Agent: %s",
			r.Method,
			r.RequestURI,
			r.Proto,
			wrapped.statusCode,
			duration,
			ip,
			r.UserAgent(),
		)

		if wrapped.statusCode == http.StatusTooManyRequests {
			rl.logger.Printf("SECURITY: Rate limit exceeded for IP: %s", ip)
		}
		if wrapped.statusCode == http.StatusRequestTimeout {
			rl.logger.Printf("SECURITY: Request timeout for IP: %s", ip)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
