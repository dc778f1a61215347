package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/cityplay/activity-booking-api/internal/platform/logger"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
	"github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
)

// idempotencyKeyHeader is the caller-provided retry-safety key. The header is
// optional; requests without it are processed normally every time.
const idempotencyKeyHeader = "Idempotency-Key"

// withIdempotency wraps a mutating handler with stored-response replay.
//
// The fingerprint is key + authenticated user + method + route template +
// body hash, so the same key sent with a different body or by a different
// user is a distinct request, not a replay. Only successful (2xx) responses
// are recorded; a failed attempt may be retried with the same key.
func withIdempotency(store idempotency.Store, clk clockport.Clock, log *logger.Logger, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyKeyHeader)
		if key == "" || store == nil {
			next(w, r)
			return
		}

		u, ok := UserFromContext(r.Context())
		if !ok {
			next(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unable to read request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		fp := idempotency.Fingerprint{
			Key:      idempotency.Key(key),
			UserID:   u.ID,
			Method:   r.Method,
			Route:    route,
			BodyHash: hex.EncodeToString(sum[:]),
		}

		if rec, hit, err := store.Get(r.Context(), fp); err != nil {
			log.Error("idempotency lookup failed", "error", err)
		} else if hit {
			w.Header().Set("Content-Type", rec.ContentType)
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}

		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next(cw, r)

		if cw.status >= 200 && cw.status < 300 {
			rec := idempotency.Record{
				StatusCode:  cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.body.Bytes(),
				CreatedAt:   clk.Now().UTC().Truncate(time.Millisecond),
			}
			if err := store.Put(r.Context(), fp, rec); err != nil {
				log.Error("idempotency record failed", "error", err)
			}
		}
	}
}

// captureWriter tees the response so a successful body can be stored for
// replay.
type captureWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	if !c.wroteHeader {
		c.status = status
		c.wroteHeader = true
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}
