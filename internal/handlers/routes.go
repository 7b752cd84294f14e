package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"procurement/internal/access"
	"procurement/internal/tracing"
	"procurement/models"
)

// Routes собирает таблицу маршрутов /api с проверками доступа
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(tracing.Middleware)

	var (
		admin       = models.RoleAdmin
		procurement = models.RoleProcurementOfficer
		finance     = models.RoleFinanceOfficer
		vendor      = models.RoleVendor
	)
	roles := func(rs ...models.Role) func(http.Handler) http.Handler {
		return access.RequireRoles(h.logger, rs...)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(access.Authenticate(h.tokens, h.Store, h.logger))

			r.Get("/auth/me", h.MeHandler)

			// поставщики
			r.With(roles(vendor, admin), h.idem.Handler).Post("/vendors", h.CreateVendorHandler)
			r.With(roles(admin, procurement)).Get("/vendors", h.GetVendorsHandler)
			r.Get("/vendors/mse", h.GetMSEVendorsHandler)
			r.Get("/vendors/{vendorId}", h.GetVendorHandler)
			r.Put("/vendors/{vendorId}", h.UpdateVendorHandler)
			r.With(roles(admin)).Delete("/vendors/{vendorId}", h.DeleteVendorHandler)

			// тендеры
			r.With(roles(admin, procurement), h.idem.Handler).Post("/tenders", h.CreateTenderHandler)
			r.Get("/tenders", h.GetTendersHandler)
			r.Get("/tenders/{tenderId}", h.GetTenderHandler)
			r.With(roles(admin, procurement)).Put("/tenders/{tenderId}", h.UpdateTenderHandler)
			r.With(roles(admin, procurement)).Delete("/tenders/{tenderId}", h.DeleteTenderHandler)

			// предложения (bids)
			r.With(roles(vendor, admin), h.idem.Handler).Post("/bids", h.CreateBidHandler)
			r.With(roles(admin, procurement)).Get("/bids/tender/{tenderId}", h.GetBidsForTenderHandler)
			r.Get("/bids/vendor/{vendorId}", h.GetBidsForVendorHandler)
			r.Put("/bids/{bidId}", h.UpdateBidHandler)

			// платежи
			r.With(roles(admin, finance), h.idem.Handler).Post("/payments", h.CreatePaymentHandler)
			r.With(roles(admin, finance)).Get("/payments", h.GetPaymentsHandler)
			r.Get("/payments/vendor/{vendorId}", h.GetVendorPaymentsHandler)
			r.Get("/payments/{paymentId}", h.GetPaymentHandler)
			r.With(roles(admin, finance)).Put("/payments/{paymentId}", h.UpdatePaymentHandler)

			// счета
			r.With(roles(vendor, admin, finance), h.idem.Handler).Post("/invoices", h.CreateInvoiceHandler)
			r.With(roles(admin, finance)).Get("/invoices", h.GetInvoicesHandler)
			r.Get("/invoices/{invoiceId}", h.GetInvoiceHandler)
			r.With(roles(admin, finance)).Put("/invoices/{invoiceId}", h.UpdateInvoiceHandler)

			// графики платежей
			r.Group(func(r chi.Router) {
				r.Use(roles(admin, finance))
				r.With(h.idem.Handler).Post("/payment-schedules", h.CreatePaymentScheduleHandler)
				r.Get("/payment-schedules", h.GetPaymentSchedulesHandler)
				r.Get("/payment-schedules/{scheduleId}", h.GetPaymentScheduleHandler)
				r.Put("/payment-schedules/{scheduleId}", h.UpdatePaymentScheduleHandler)
			})

			// уведомления
			r.Get("/notifications", h.GetNotificationsHandler)
			r.Put("/notifications/{notificationId}/read", h.MarkNotificationReadHandler)
			r.With(roles(admin), h.idem.Handler).Post("/notifications", h.CreateNotificationHandler)
		})
	})

	return r
}
