package handlers

import (
	"net/http"

	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

// CreateBidHandler обрабатывает POST /api/bids.
// Поставщик подаёт предложение только от своего имени, администратор указывает vendor явно.
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.BidCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	vendorID, err := vendorFor(actor, req.VendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tender, err := h.Store.GetTender(r.Context(), req.TenderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// черновик для поставщика не существует, как и в GetTenderHandler
	if tender.Status == models.TenderDraft && !actor.IsStaff() {
		h.fail(w, r, apperr.NotFound("tender"))
		return
	}
	if !tender.Status.AcceptsBids() {
		h.fail(w, r, apperr.Conflict("tender is %s and does not accept bids", tender.Status))
		return
	}
	if h.now().After(tender.SubmissionDeadline.Time) {
		h.fail(w, r, apperr.Conflict("submission deadline has passed"))
		return
	}

	vendor, err := h.Store.GetVendor(r.Context(), vendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := checkEligibility(tender, vendor); err != nil {
		h.fail(w, r, err)
		return
	}

	bid := req.NewBid(vendorID)
	if err := h.Store.CreateBid(r.Context(), bid); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, bid)
}

// vendorFor определяет поставщика, от имени которого действует участник
func vendorFor(actor access.Actor, requested int) (int, error) {
	if actor.Role != models.RoleVendor {
		if requested == 0 {
			return 0, apperr.InvalidField("vendor", "required")
		}
		return requested, nil
	}
	if actor.VendorID == 0 {
		return 0, apperr.Unprocessable("vendor profile must be registered first")
	}
	if requested != 0 && requested != actor.VendorID {
		return 0, apperr.Forbidden()
	}
	return actor.VendorID, nil
}

func checkEligibility(t *models.Tender, v *models.Vendor) error {
	if v.Status == models.VendorSuspended {
		return apperr.Unprocessable("suspended vendor cannot submit bids")
	}
	if t.IsReservedForMSE && v.BusinessType != models.BusinessMSE {
		return apperr.Unprocessable("tender is reserved for MSE vendors")
	}
	return nil
}

func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	tenderID, err := pathID(r, "tenderId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	bids, err := h.Store.ListBidsForTender(r.Context(), tenderID, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, bids)
}

func (h *Handler) GetBidsForVendorHandler(w http.ResponseWriter, r *http.Request) {
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
	if !access.CanActOnVendor(actor, vendorID) {
		h.fail(w, r, apperr.Forbidden())
		return
	}

	bids, err := h.Store.ListBidsForVendor(r.Context(), vendorID, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, bids)
}

// UpdateBidHandler: статус и оценку меняет комиссия,
// поставщик правит сумму и предложение, пока оно в статусе submitted
func (h *Handler) UpdateBidHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	bidID, err := pathID(r, "bidId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var patch models.BidPatch
	if err := h.validator.Decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.Store.GetBid(r.Context(), bidID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	bid := &view.Bid

	if !access.CanUpdateBid(actor, bid) {
		h.fail(w, r, apperr.Forbidden())
		return
	}
	reviewer := access.CanReviewBids(actor)
	if patch.TouchesStaffFields() && !reviewer {
		h.fail(w, r, apperr.Forbidden())
		return
	}
	if !reviewer && bid.Status != models.BidSubmitted {
		h.fail(w, r, apperr.Conflict("bid is %s and can no longer be edited", bid.Status))
		return
	}
	if patch.Status != nil && !bid.Status.CanTransitionTo(*patch.Status) {
		h.fail(w, r, apperr.Conflict("bid status cannot change from %s to %s", bid.Status, *patch.Status))
		return
	}
	patch.Apply(bid)

	if err := h.Store.UpdateBid(r.Context(), bid); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
