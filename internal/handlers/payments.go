package handlers

import (
	"net/http"

	"procurement/db"
	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

// CreatePaymentHandler обрабатывает POST /api/payments.
// processedBy - текущий сотрудник, статус всегда pending.
func (h *Handler) CreatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.PaymentCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Store.GetVendor(r.Context(), req.VendorID); err != nil {
		h.fail(w, r, err)
		return
	}

	payment := req.NewPayment(actor.UserID)
	if err := h.Store.CreatePayment(r.Context(), payment); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) GetPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	var filter db.PaymentFilter
	switch status := models.PaymentStatus(r.URL.Query().Get("status")); status {
	case "", models.PaymentPending, models.PaymentProcessing, models.PaymentCompleted, models.PaymentFailed:
		filter.Status = status
	default:
		h.fail(w, r, apperr.InvalidField("status", "oneof=pending processing completed failed"))
		return
	}

	payments, err := h.Store.ListPayments(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments)
}

func (h *Handler) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payment, err := h.Store.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// чужой платёж неотличим от отсутствующего
	if !access.CanReadVendorFinance(actor, payment.VendorID) {
		h.fail(w, r, apperr.NotFound("payment"))
		return
	}
	respond.JSON(w, http.StatusOK, payment)
}

// GetVendorPaymentsHandler - платежи одного поставщика (финансы или сам поставщик)
func (h *Handler) GetVendorPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !access.CanReadVendorFinance(actor, vendorID) {
		h.fail(w, r, apperr.Forbidden())
		return
	}

	payments, err := h.Store.ListPayments(r.Context(), db.PaymentFilter{VendorID: vendorID}, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, payments)
}

// UpdatePaymentHandler: установка статуса completed проставляет paymentDate текущим временем
func (h *Handler) UpdatePaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch models.PaymentPatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.Store.GetPayment(r.Context(), paymentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	payment := &view.Payment

	if patch.Status != nil && !payment.Status.CanTransitionTo(*patch.Status) {
		h.fail(w, r, apperr.Conflict("payment status cannot change from %s to %s", payment.Status, *patch.Status))
		return
	}
	patch.Apply(payment)
	if patch.Status != nil && *patch.Status == models.PaymentCompleted {
		now := h.now()
		payment.PaymentDate = &now
	}

	if err := h.Store.UpdatePayment(r.Context(), payment); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
