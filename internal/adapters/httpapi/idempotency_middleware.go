package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/andrescamacho/searoutes-go/internal/adapters/idempotency"
	"github.com/andrescamacho/searoutes-go/internal/adapters/metrics"
	"github.com/andrescamacho/searoutes-go/internal/application/common"
	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	AltIdempotencyKeyHeader = "X-Idempotency-Key"
	ReplayedHeader          = "Idempotent-Replayed"
)

// captureWriter tees the response so it can be stored for replay
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	if c.status == 0 {
		c.status = status
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}

// idempotencyMiddleware guards mutating routes. Requests without a key
// pass straight through. A key seen with the same route and body is
// either still running (409) or replayed byte for byte. Server errors are
// not remembered so the client can retry them.
func (s *Server) idempotencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientKey := r.Header.Get(IdempotencyKeyHeader)
		if clientKey == "" {
			clientKey = r.Header.Get(AltIdempotencyKeyHeader)
		}
		if s.idempotency == nil || clientKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// The body is already capped by RequestSize; reading past the cap
		// fails with *http.MaxBytesError, which writeError turns into 413
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if !errors.As(err, &tooLarge) {
				err = shared.NewValidationError("body", "failed to read request body")
			}
			s.writeError(w, r, err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := idempotency.Key(r.Method, r.URL.Path, clientKey, body)
		outcome, stored := s.idempotency.Begin(key)
		metrics.RecordIdempotency(outcome.String())

		switch outcome {
		case idempotency.InProgress:
			common.LoggerFromContext(r.Context()).Log(common.LevelInfo, "Duplicate request still in flight", map[string]interface{}{
				"path": r.URL.Path,
			})
			writeErrorBody(w, http.StatusConflict, "a request with this idempotency key is already in progress", shared.CodeInProgress)
			return

		case idempotency.Replay:
			for name, values := range stored.Header {
				w.Header()[name] = values
			}
			w.Header().Set(ReplayedHeader, "true")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}

		capture := &captureWriter{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				s.idempotency.Release(key)
				panic(p)
			}
		}()

		next.ServeHTTP(capture, r)

		if capture.status == 0 || capture.status >= http.StatusInternalServerError {
			s.idempotency.Release(key)
			return
		}
		s.idempotency.Complete(key, idempotency.Response{
			StatusCode: capture.status,
			Header:     http.Header{"Content-Type": w.Header().Values("Content-Type")},
			Body:       capture.body.Bytes(),
		})
	})
}
