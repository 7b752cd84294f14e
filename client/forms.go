package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"procurement/internal/apperr"
	"procurement/internal/validation"
	"procurement/models"
)

// ErrSubmitInProgress возвращается, если форма уже отправляется
var ErrSubmitInProgress = errors.New("submit already in progress")

type formConfig struct {
	onError func(error)
	now     func() time.Time
	logger  *slog.Logger
}

type FormOption func(*formConfig)

// WithErrorHandler получает каждую ошибку отправки, включая ошибки проверки
func WithErrorHandler(fn func(error)) FormOption {
	return func(c *formConfig) { c.onError = fn }
}

func WithClock(now func() time.Time) FormOption {
	return func(c *formConfig) { c.now = now }
}

func WithFormLogger(logger *slog.Logger) FormOption {
	return func(c *formConfig) { c.logger = logger }
}

// Form хранит значения полей и отправляет их одним запросом на создание.
// Ключ идемпотентности живёт до успешной отправки: повтор того же
// содержимого после сбоя сети не создаст дубликат.
type Form[Req, Resp any] struct {
	cfg       formConfig
	validator *validation.Validator
	create    func(ctx context.Context, req Req, key string) (*Resp, error)

	mu          sync.Mutex
	values      Req
	submitting  bool
	key         string
	fingerprint uint64
}

type (
	InvoiceForm         = Form[models.InvoiceCreate, models.Invoice]
	PaymentForm         = Form[models.PaymentCreate, models.Payment]
	PaymentScheduleForm = Form[models.PaymentScheduleCreate, models.PaymentSchedule]
)

func NewInvoiceForm(c *Client, opts ...FormOption) *InvoiceForm {
	return newForm(c.CreateInvoice, opts)
}

func NewPaymentForm(c *Client, opts ...FormOption) *PaymentForm {
	return newForm(c.CreatePayment, opts)
}

func NewPaymentScheduleForm(c *Client, opts ...FormOption) *PaymentScheduleForm {
	return newForm(c.CreatePaymentSchedule, opts)
}

func newForm[Req, Resp any](create func(context.Context, Req, string) (*Resp, error), opts []FormOption) *Form[Req, Resp] {
	cfg := formConfig{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Form[Req, Resp]{
		cfg:       cfg,
		validator: validation.NewWithClock(cfg.now),
		create:    create,
	}
}

// Values возвращает копию текущих значений
func (f *Form[Req, Resp]) Values() Req {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Update меняет значения полей под блокировкой формы
func (f *Form[Req, Resp]) Update(fn func(*Req)) {
	f.mu.Lock()
	fn(&f.values)
	f.mu.Unlock()
}

func (f *Form[Req, Resp]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero Req
	f.values = zero
	f.key = ""
	f.fingerprint = 0
}

// Validate проверяет всю форму теми же правилами, что и сервер
func (f *Form[Req, Resp]) Validate() error {
	values := f.Values()
	return f.validator.Struct(&values)
}

// ValidateField проверяет одно поле (по имени в JSON), например при потере фокуса
func (f *Form[Req, Resp]) ValidateField(name string) []apperr.FieldError {
	appErr, ok := apperr.As(f.Validate())
	if !ok {
		return nil
	}
	var out []apperr.FieldError
	for _, fe := range appErr.Fields {
		if fe.Field == name {
			out = append(out, fe)
		}
	}
	return out
}

// Submit выполняет ровно одну запись. При успехе форма очищается,
// при ошибке значения остаются, а ошибка уходит в обработчик.
func (f *Form[Req, Resp]) Submit(ctx context.Context) (*Resp, error) {
	if err := f.Validate(); err != nil {
		f.report(ctx, err)
		return nil, err
	}

	values, key, err := f.begin()
	if err != nil {
		return nil, err
	}

	resp, err := f.create(ctx, values, key)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		f.report(ctx, err)
		return nil, err
	}
	f.Reset()
	return resp, nil
}

// begin помечает форму занятой и выдаёт ключ для текущего содержимого
func (f *Form[Req, Resp]) begin() (Req, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := f.values
	if f.submitting {
		return values, "", ErrSubmitInProgress
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return values, "", errors.Wrap(err, "encode form")
	}
	fp := xxh3.Hash(payload)
	if f.key == "" || fp != f.fingerprint {
		f.key = uuid.NewString()
		f.fingerprint = fp
	}
	f.submitting = true
	return values, f.key, nil
}

func (f *Form[Req, Resp]) report(ctx context.Context, err error) {
	f.cfg.logger.WarnContext(ctx, "form submit failed", slog.Any("error", err))
	if f.cfg.onError != nil {
		f.cfg.onError(err)
	}
}
