package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"procurement/internal/apperr"
	"procurement/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeAPI - минимальный сервер с теми же маршрутами, что и API
type fakeAPI struct {
	mu            sync.Mutex
	keys          []string
	invoiceStatus int
	pollStatus    int
	notifications []models.Notification
	polls         int
	block         chan struct{}
	entered       chan struct{}
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{invoiceStatus: http.StatusCreated, pollStatus: http.StatusOK}

	r := chi.NewRouter()
	r.Post("/api/auth/login", api.login)
	r.Post("/api/invoices", api.createInvoice)
	r.Post("/api/payment-schedules", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		writeJSON(w, http.StatusCreated, models.PaymentSchedule{ID: 1, Status: models.ScheduleScheduled})
	})
	r.Get("/api/notifications", api.listNotifications)
	r.Put("/api/notifications/{id}/read", api.markRead)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, New(srv.URL, WithLogger(discardLogger()))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *fakeAPI) record(r *http.Request) {
	a.mu.Lock()
	a.keys = append(a.keys, r.Header.Get("Idempotency-Key"))
	a.mu.Unlock()
}

// set меняет поведение сервера под его блокировкой
func (a *fakeAPI) set(fn func(a *fakeAPI)) {
	a.mu.Lock()
	fn(a)
	a.mu.Unlock()
}

func (a *fakeAPI) recordedKeys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.keys...)
}

func (a *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Password != "correct-horse" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: "tok-1", User: &models.User{ID: 5, Email: req.Email, Role: models.RoleVendor}})
}

func (a *fakeAPI) createInvoice(w http.ResponseWriter, r *http.Request) {
	a.record(r)
	a.mu.Lock()
	block, entered, status := a.block, a.entered, a.invoiceStatus
	a.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if status != http.StatusCreated {
		writeJSON(w, status, map[string]any{
			"message": "validation failed",
			"fields":  []apperr.FieldError{{Field: "invoiceNumber", Rule: "required"}},
		})
		return
	}
	var req models.InvoiceCreate
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusCreated, req.NewInvoice(1, 5))
}

func (a *fakeAPI) listNotifications(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.polls++
	if a.pollStatus != http.StatusOK {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, a.pollStatus, map[string]string{"message": "too many requests"})
		return
	}
	var unread []models.Notification
	for _, n := range a.notifications {
		if !n.Read || r.URL.Query().Get("unread") != "true" {
			unread = append(unread, n)
		}
	}
	writeJSON(w, http.StatusOK, unread)
}

func (a *fakeAPI) markRead(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.notifications {
		if a.notifications[i].ID == id {
			a.notifications[i].Read = true
			writeJSON(w, http.StatusOK, a.notifications[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "notification not found"})
}

func TestLogin(t *testing.T) {
	_, c := newFakeAPI(t)

	_, err := c.Login(context.Background(), "v@example.com", "wrong")
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Empty(t, c.Token())

	user, err := c.Login(context.Background(), "v@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, 5, user.ID)
	require.Equal(t, "tok-1", c.Token())
}

func TestClientSendsBearerToken(t *testing.T) {
	headers := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []models.Notification{})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("abc"))
	_, err := c.Notifications(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", <-headers)
}

type countingTransport struct {
	mu    sync.Mutex
	calls int
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return http.DefaultTransport.RoundTrip(r)
}

func TestClientUsesInjectedHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, models.User{ID: 7, Email: "me@neepco.test"})
	}))
	defer srv.Close()

	transport := &countingTransport{}
	c := New(srv.URL, WithHTTPClient(&http.Client{Transport: transport}), WithTimeout(time.Second))

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, user.ID)
	require.Equal(t, 1, transport.calls)
}

func TestAPIErrorCarriesFields(t *testing.T) {
	api, c := newFakeAPI(t)
	api.set(func(a *fakeAPI) { a.invoiceStatus = http.StatusBadRequest })

	_, err := c.CreateInvoice(context.Background(), models.InvoiceCreate{}, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, []apperr.FieldError{{Field: "invoiceNumber", Rule: "required"}}, apiErr.Fields)
	require.Contains(t, apiErr.Error(), "invoiceNumber (required)")
}

func TestPreferencesAreInjected(t *testing.T) {
	prefs := NewPreferences(ThemeDark)
	c := New("http://localhost", WithPreferences(prefs))
	require.Same(t, prefs, c.Preferences())
	require.Equal(t, ThemeLight, c.Preferences().ToggleTheme())
	require.Equal(t, ThemeLight, prefs.Theme())

	// у каждого клиента свои настройки
	require.Equal(t, ThemeLight, New("http://localhost").Preferences().Theme())
}

func fillInvoice(v *models.InvoiceCreate) {
	v.InvoiceNumber = "INV-7"
	v.Amount = decimal.NewFromInt(1500)
	v.IssueDate = models.NewDate(now)
	v.DueDate = models.NewDate(now.AddDate(0, 1, 0))
}

func TestInvoiceFormValidation(t *testing.T) {
	api, c := newFakeAPI(t)
	var reported []error
	form := NewInvoiceForm(c, WithErrorHandler(func(err error) { reported = append(reported, err) }), WithFormLogger(discardLogger()))

	form.Update(func(v *models.InvoiceCreate) {
		fillInvoice(v)
		v.DueDate = models.NewDate(now.AddDate(0, 0, -1))
		v.Amount = decimal.NewFromInt(-1)
	})
	require.Equal(t, []apperr.FieldError{{Field: "amount", Rule: "gt=0"}}, form.ValidateField("amount"))
	require.Empty(t, form.ValidateField("invoiceNumber"))

	_, err := form.Submit(context.Background())
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
	require.Len(t, reported, 1)
	require.Empty(t, api.recordedKeys(), "invalid form must not reach the server")
}

func TestInvoiceFormKeepsKeyUntilSuccess(t *testing.T) {
	api, c := newFakeAPI(t)
	var reported []error
	form := NewInvoiceForm(c, WithErrorHandler(func(err error) { reported = append(reported, err) }), WithFormLogger(discardLogger()))
	form.Update(fillInvoice)

	api.set(func(a *fakeAPI) { a.invoiceStatus = http.StatusInternalServerError })
	_, err := form.Submit(context.Background())
	require.True(t, IsStatus(err, http.StatusInternalServerError))
	require.Len(t, reported, 1)
	require.Equal(t, "INV-7", form.Values().InvoiceNumber, "failed submit keeps the values")

	api.set(func(a *fakeAPI) { a.invoiceStatus = http.StatusCreated })
	invoice, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "INV-7", invoice.InvoiceNumber)
	require.Equal(t, models.InvoicePending, invoice.Status)
	require.Empty(t, form.Values().InvoiceNumber, "successful submit resets the form")

	form.Update(fillInvoice)
	_, err = form.Submit(context.Background())
	require.NoError(t, err)

	keys := api.recordedKeys()
	require.Len(t, keys, 3)
	require.Equal(t, keys[0], keys[1])
	require.NotEqual(t, keys[1], keys[2])
	_, err = uuid.Parse(keys[2])
	require.NoError(t, err)
}

func TestFormNewKeyWhenPayloadChanges(t *testing.T) {
	api, c := newFakeAPI(t)
	form := NewInvoiceForm(c, WithFormLogger(discardLogger()))
	form.Update(fillInvoice)

	api.set(func(a *fakeAPI) { a.invoiceStatus = http.StatusConflict })
	_, err := form.Submit(context.Background())
	require.Error(t, err)

	form.Update(func(v *models.InvoiceCreate) { v.InvoiceNumber = "INV-8" })
	_, err = form.Submit(context.Background())
	require.Error(t, err)

	keys := api.recordedKeys()
	require.Len(t, keys, 2)
	require.NotEqual(t, keys[0], keys[1])
}

func TestFormRejectsConcurrentSubmit(t *testing.T) {
	api, c := newFakeAPI(t)
	block, entered := make(chan struct{}), make(chan struct{}, 1)
	api.set(func(a *fakeAPI) { a.block, a.entered = block, entered })

	form := NewInvoiceForm(c, WithFormLogger(discardLogger()))
	form.Update(fillInvoice)

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()
	<-entered

	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(block)
	require.NoError(t, <-done)
	require.Len(t, api.recordedKeys(), 1)
}

func TestPaymentScheduleFormFutureDate(t *testing.T) {
	api, c := newFakeAPI(t)
	form := NewPaymentScheduleForm(c, WithClock(func() time.Time { return now }), WithFormLogger(discardLogger()))
	form.Update(func(v *models.PaymentScheduleCreate) {
		v.VendorID = 3
		v.Amount = decimal.NewFromInt(100)
		v.Frequency = models.FrequencyMonthly
		v.ScheduledDate = models.NewDate(now.Add(-time.Hour))
	})

	require.Equal(t, []apperr.FieldError{{Field: "scheduledDate", Rule: "future"}}, form.ValidateField("scheduledDate"))

	form.Update(func(v *models.PaymentScheduleCreate) { v.ScheduledDate = models.NewDate(now.AddDate(0, 0, 1)) })
	schedule, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.ScheduleScheduled, schedule.Status)
	require.Len(t, api.recordedKeys(), 1)
}

func TestPaymentFormRequiresVendorAndMethod(t *testing.T) {
	_, c := newFakeAPI(t)
	form := NewPaymentForm(c, WithFormLogger(discardLogger()))
	form.Update(func(v *models.PaymentCreate) { v.Amount = decimal.NewFromInt(10) })

	appErr, ok := apperr.As(form.Validate())
	require.True(t, ok)
	require.Contains(t, appErr.Fields, apperr.FieldError{Field: "vendor", Rule: "required"})
	require.Contains(t, appErr.Fields, apperr.FieldError{Field: "paymentMethod", Rule: "required"})
}
