package handlers

import (
	"net/http"
	"strconv"

	"procurement/db"
	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

// CreateInvoiceHandler обрабатывает POST /api/invoices.
// Поставщик выставляет счёт от своего имени, финансы - за указанного поставщика.
func (h *Handler) CreateInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.InvoiceCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	vendorID, err := vendorFor(actor, req.VendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Store.GetVendor(r.Context(), vendorID); err != nil {
		h.fail(w, r, err)
		return
	}

	invoice := req.NewInvoice(vendorID, actor.UserID)
	if err := h.Store.CreateInvoice(r.Context(), invoice); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) GetInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	var filter db.InvoiceFilter
	switch status := models.InvoiceStatus(q.Get("status")); status {
	case "", models.InvoicePending, models.InvoiceApproved, models.InvoiceRejected, models.InvoicePaid:
		filter.Status = status
	default:
		h.fail(w, r, apperr.InvalidField("status", "oneof=pending approved rejected paid"))
		return
	}
	if v := q.Get("vendor"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			h.fail(w, r, apperr.InvalidField("vendor", "positive integer"))
			return
		}
		filter.VendorID = id
	}

	invoices, err := h.Store.ListInvoices(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) GetInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	invoiceID, err := pathID(r, "invoiceId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	invoice, err := h.Store.GetInvoice(r.Context(), invoiceID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// чужой счёт неотличим от отсутствующего
	if !access.CanReadVendorFinance(actor, invoice.VendorID) {
		h.fail(w, r, apperr.NotFound("invoice"))
		return
	}
	respond.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) UpdateInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := pathID(r, "invoiceId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch models.InvoicePatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.Store.GetInvoice(r.Context(), invoiceID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	invoice := &view.Invoice

	if patch.Status != nil && !invoice.Status.CanTransitionTo(*patch.Status) {
		h.fail(w, r, apperr.Conflict("invoice status cannot change from %s to %s", invoice.Status, *patch.Status))
		return
	}
	if patch.DueDate != nil && patch.DueDate.Before(invoice.IssueDate.Time) {
		h.fail(w, r, apperr.InvalidField("dueDate", "gtefield=issueDate"))
		return
	}
	patch.Apply(invoice)

	if err := h.Store.UpdateInvoice(r.Context(), invoice); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
