package handlers

import (
	"net/http"

	"procurement/db"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

// CreatePaymentScheduleHandler обрабатывает POST /api/payment-schedules.
// Дата платежа должна быть в будущем на момент создания.
func (h *Handler) CreatePaymentScheduleHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.PaymentScheduleCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.Store.GetVendor(r.Context(), req.VendorID); err != nil {
		h.fail(w, r, err)
		return
	}

	schedule := req.NewSchedule(actor.UserID)
	if err := h.Store.CreatePaymentSchedule(r.Context(), schedule); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, schedule)
}

func (h *Handler) GetPaymentSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	var filter db.ScheduleFilter
	switch status := models.ScheduleStatus(r.URL.Query().Get("status")); status {
	case "", models.ScheduleScheduled, models.ScheduleExecuted, models.ScheduleCancelled:
		filter.Status = status
	default:
		h.fail(w, r, apperr.InvalidField("status", "oneof=scheduled executed cancelled"))
		return
	}

	schedules, err := h.Store.ListPaymentSchedules(r.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, schedules)
}

func (h *Handler) GetPaymentScheduleHandler(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathID(r, "scheduleId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	schedule, err := h.Store.GetPaymentSchedule(r.Context(), scheduleID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, schedule)
}

func (h *Handler) UpdatePaymentScheduleHandler(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathID(r, "scheduleId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch models.PaymentSchedulePatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	schedule, err := h.Store.GetPaymentSchedule(r.Context(), scheduleID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if patch.Status != nil && !schedule.Status.CanTransitionTo(*patch.Status) {
		h.fail(w, r, apperr.Conflict("payment schedule status cannot change from %s to %s", schedule.Status, *patch.Status))
		return
	}
	patch.Apply(schedule)

	if err := h.Store.UpdatePaymentSchedule(r.Context(), schedule); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, schedule)
}
