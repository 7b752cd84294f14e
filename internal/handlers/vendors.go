package handlers

import (
	"net/http"

	"procurement/db"
	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

// CreateVendorHandler обрабатывает POST /api/vendors.
// Владелец карточки - текущий пользователь; администратор может указать userId.
func (h *Handler) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.VendorCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	owner := actor.UserID
	if actor.Role == models.RoleAdmin && req.UserID != 0 {
		owner = req.UserID
	}
	vendor := req.NewVendor(owner)
	if err := h.Store.CreateVendor(r.Context(), vendor); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, vendor)
}

// GetVendorsHandler возвращает список поставщиков с фильтрами status и businessType
func (h *Handler) GetVendorsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	filter, err := vendorFilterFromQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	vendors, err := h.Store.ListVendors(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, vendors)
}

// GetMSEVendorsHandler - поставщики категории MSE, допущенные к резервным тендерам
func (h *Handler) GetMSEVendorsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	filter, err := vendorFilterFromQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter.BusinessType = models.BusinessMSE

	vendors, err := h.Store.ListVendors(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, vendors)
}

func vendorFilterFromQuery(r *http.Request) (db.VendorFilter, error) {
	var f db.VendorFilter
	q := r.URL.Query()

	switch status := models.VendorStatus(q.Get("status")); status {
	case "", models.VendorPending, models.VendorActive, models.VendorSuspended:
		f.Status = status
	default:
		return f, apperr.InvalidField("status", "oneof=Pending Active Suspended")
	}
	switch bt := models.BusinessType(q.Get("businessType")); bt {
	case "", models.BusinessMSE, models.BusinessLarge:
		f.BusinessType = bt
	default:
		return f, apperr.InvalidField("businessType", "oneof=MSE 'Large Enterprise'")
	}
	return f, nil
}

func (h *Handler) GetVendorHandler(w http.ResponseWriter, r *http.Request) {
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
	if !access.CanActOnVendor(actor, vendorID) {
		h.fail(w, r, apperr.Forbidden())
		return
	}

	vendor, err := h.Store.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, vendor)
}

// UpdateVendorHandler обрабатывает PUT /api/vendors/{vendorId}.
// Отсутствующее поле сохраняет прежнее значение, переданное "" перезаписывает его.
func (h *Handler) UpdateVendorHandler(w http.ResponseWriter, r *http.Request) {
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
	if !access.CanActOnVendor(actor, vendorID) {
		h.fail(w, r, apperr.Forbidden())
		return
	}

	var patch models.VendorPatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	if patch.TouchesStaffFields() && !access.CanManageVendor(actor) {
		h.fail(w, r, apperr.Forbidden())
		return
	}

	vendor, err := h.Store.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch.Apply(vendor)

	if err := h.Store.UpdateVendor(r.Context(), vendor); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, vendor)
}

// DeleteVendorHandler отказывает с 409, пока у поставщика есть зависимые записи
func (h *Handler) DeleteVendorHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathID(r, "vendorId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Store.DeleteVendor(r.Context(), vendorID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "vendor deleted"})
}
