package handlers

import (
	"net/http"
	"slices"

	"procurement/db"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

var allowedTenderStatuses = map[models.TenderStatus]bool{
	models.TenderDraft:       true,
	models.TenderPublished:   true,
	models.TenderUnderReview: true,
	models.TenderAwarded:     true,
	models.TenderCancelled:   true,
}

var allowedCategories = map[models.Category]bool{
	models.CategoryGoods:    true,
	models.CategoryServices: true,
	models.CategoryWorks:    true,
}

// CreateTenderHandler обрабатывает POST /api/tenders, тендер создаётся черновиком
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.TenderCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	tender := req.NewTender(actor.UserID)
	if err := h.Store.CreateTender(r.Context(), tender); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, tender)
}

// GetTendersHandler возвращает список тендеров с фильтрами status, category и mse.
// Неизвестное значение фильтра - 400. Поставщики не видят черновики.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	params := parsePaginationParams(r)
	filter, err := tenderFilterFromQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !actor.IsStaff() {
		requested := len(filter.Statuses) > 0
		filter.Statuses = slices.DeleteFunc(filter.Statuses, func(st models.TenderStatus) bool {
			return st == models.TenderDraft
		})
		if requested && len(filter.Statuses) == 0 {
			respond.JSON(w, http.StatusOK, []models.Tender{})
			return
		}
		if !requested {
			filter.Statuses = []models.TenderStatus{
				models.TenderPublished, models.TenderUnderReview, models.TenderAwarded, models.TenderCancelled,
			}
		}
	}

	tenders, err := h.Store.ListTenders(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tenders)
}

func tenderFilterFromQuery(r *http.Request) (db.TenderFilter, error) {
	var f db.TenderFilter
	q := r.URL.Query()

	for _, v := range q["status"] {
		st := models.TenderStatus(v)
		if !allowedTenderStatuses[st] {
			return f, apperr.InvalidField("status", "oneof=draft published under_review awarded cancelled")
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, v := range q["category"] {
		c := models.Category(v)
		if !allowedCategories[c] {
			return f, apperr.InvalidField("category", "oneof=goods services works")
		}
		f.Categories = append(f.Categories, c)
	}
	switch q.Get("mse") {
	case "", "false":
	case "true":
		f.MSEOnly = true
	default:
		return f, apperr.InvalidField("mse", "boolean")
	}
	return f, nil
}

func (h *Handler) GetTenderHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tenderID, err := pathID(r, "tenderId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tender, err := h.Store.GetTender(r.Context(), tenderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if tender.Status == models.TenderDraft && !actor.IsStaff() {
		h.fail(w, r, apperr.NotFound("tender"))
		return
	}
	respond.JSON(w, http.StatusOK, tender)
}

// UpdateTenderHandler применяет частичное обновление и проверяет переход статуса
func (h *Handler) UpdateTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := pathID(r, "tenderId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch models.TenderPatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	tender, err := h.Store.GetTender(r.Context(), tenderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if patch.Status != nil && !tender.Status.CanTransitionTo(*patch.Status) {
		h.fail(w, r, apperr.Conflict("tender status cannot change from %s to %s", tender.Status, *patch.Status))
		return
	}
	patch.Apply(tender)

	if err := h.Store.UpdateTender(r.Context(), tender); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tender)
}

// DeleteTenderHandler отказывает с 409, если по тендеру есть предложения или платежи
func (h *Handler) DeleteTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := pathID(r, "tenderId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Store.DeleteTender(r.Context(), tenderID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "tender deleted"})
}
