package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/idempotency"
	"procurement/internal/respond"
	"procurement/internal/validation"
)

// Options - зависимости Handler. Незаданные поля получают значения по умолчанию.
type Options struct {
	Tokens         *access.Tokens
	Logger         *slog.Logger
	Validator      *validation.Validator
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	PollRate       rate.Limit
	PollBurst      int
	Now            func() time.Time
}

// Handler оборачивает Storage для доступа к данным
type Handler struct {
	Store StorageInterface

	tokens    *access.Tokens
	logger    *slog.Logger
	validator *validation.Validator
	idem      *idempotency.Middleware
	polls     *pollLimiter
	now       func() time.Time
}

// NewHandler создает новый Handler
func NewHandler(store StorageInterface, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewWithClock(opts.Now)
	}
	if opts.Idempotency == nil {
		opts.Idempotency = idempotency.NewMemoryStore(opts.IdempotencyTTL)
	}
	if opts.PollRate <= 0 {
		opts.PollRate = 1
	}
	if opts.PollBurst <= 0 {
		opts.PollBurst = 5
	}
	return &Handler{
		Store:     store,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		validator: opts.Validator,
		idem:      idempotency.NewMiddleware(opts.Idempotency, opts.IdempotencyTTL, opts.Logger),
		polls:     newPollLimiter(opts.PollRate, opts.PollBurst),
		now:       opts.Now,
	}
}

// PingHandler отвечает "ok", если база доступна
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// fail - единственный путь ошибки из контроллеров
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	respond.Error(w, r, h.logger, err)
}

func actorFrom(r *http.Request) (access.Actor, error) {
	actor, ok := access.FromContext(r.Context())
	if !ok {
		return access.Actor{}, apperr.Unauthorized()
	}
	return actor, nil
}

// pathID читает положительный целый параметр пути
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, apperr.InvalidField(name, "positive integer")
	}
	return id, nil
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 20}

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		params.Limit = min(l, 100)
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		params.Offset = o
	}
	return params
}
