package idempotency

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
)

const (
	Header         = "Idempotency-Key"
	ReplayedHeader = "Idempotent-Replayed"
	maxBodyBytes   = 1 << 20
)

// Middleware защищает POST-создание от повторной отправки формы.
// Без заголовка Idempotency-Key запрос проходит как обычно.
type Middleware struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewMiddleware(store Store, ttl time.Duration, logger *slog.Logger) *Middleware {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Middleware{store: store, ttl: ttl, logger: logger}
}

// Fingerprint - xxh3 от метода, пути и тела запроса
func Fingerprint(method, path string, body []byte) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(method)
	_, _ = h.WriteString(" ")
	_, _ = h.WriteString(path)
	_, _ = h.WriteString("\n")
	_, _ = h.Write(body)
	return h.Sum64()
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(Header)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := uuid.Parse(key); err != nil {
			respond.Error(w, r, m.logger, apperr.InvalidField(Header, "uuid"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			respond.Error(w, r, m.logger, apperr.BadRequest("failed to read request body"))
			return
		}
		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		scope := "anonymous"
		if actor, ok := access.FromContext(r.Context()); ok {
			scope = fmt.Sprintf("user:%d", actor.UserID)
		}
		storeKey := "idem:" + scope + ":" + key
		fp := Fingerprint(r.Method, r.URL.Path, body)

		existing, reserved, err := m.store.Reserve(r.Context(), storeKey, fp, m.ttl)
		if err != nil {
			respond.Error(w, r, m.logger, err)
			return
		}
		if !reserved {
			m.replay(w, r, existing, fp)
			return
		}

		// ключ закрывается и после отключения клиента
		storeCtx := context.WithoutCancel(r.Context())

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		completed := false
		defer func() {
			if !completed {
				if err := m.store.Release(storeCtx, storeKey); err != nil {
					m.logger.WarnContext(storeCtx, "release idempotency key", slog.Any("error", err))
				}
			}
		}()

		next.ServeHTTP(rec, r)

		if rec.status >= 200 && rec.status < 300 {
			err := m.store.Complete(storeCtx, storeKey, Record{
				Fingerprint: fp,
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}, m.ttl)
			if err != nil {
				m.logger.WarnContext(storeCtx, "store idempotent response", slog.Any("error", err))
				return
			}
			completed = true
		}
	})
}

func (m *Middleware) replay(w http.ResponseWriter, r *http.Request, existing *Record, fp uint64) {
	switch {
	case existing == nil:
		respond.Error(w, r, m.logger, apperr.Conflict("request with this idempotency key is in progress"))
	case existing.Fingerprint != fp:
		respond.Error(w, r, m.logger, apperr.Unprocessable("idempotency key was already used with a different request"))
	case !existing.Done:
		respond.Error(w, r, m.logger, apperr.Conflict("request with this idempotency key is in progress"))
	default:
		if existing.ContentType != "" {
			w.Header().Set("Content-Type", existing.ContentType)
		}
		w.Header().Set(ReplayedHeader, "true")
		w.WriteHeader(existing.Status)
		_, _ = w.Write(existing.Body)
	}
}

type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
