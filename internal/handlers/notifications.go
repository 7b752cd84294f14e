package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"procurement/internal/access"
	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

// pollLimiter - token bucket на пользователя для опроса ленты.
// Лимитеры неактивных пользователей вытесняются из кэша.
type pollLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func newPollLimiter(limit rate.Limit, burst int) *pollLimiter {
	return &pollLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.New(10*time.Minute, 10*time.Minute),
	}
}

func (p *pollLimiter) Allow(userID int) bool {
	key := strconv.Itoa(userID)
	if l, ok := p.limiters.Get(key); ok {
		p.limiters.SetDefault(key, l)
		return l.(*rate.Limiter).Allow()
	}
	l := rate.NewLimiter(p.limit, p.burst)
	if err := p.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// конкурентный запрос того же пользователя успел создать лимитер
		if existing, ok := p.limiters.Get(key); ok {
			return existing.(*rate.Limiter).Allow()
		}
	}
	return l.Allow()
}

// GetNotificationsHandler отдаёт уведомления текущего пользователя, ?unread=true - только непрочитанные
func (h *Handler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.polls.Allow(actor.UserID) {
		w.Header().Set("Retry-After", "1")
		h.fail(w, r, apperr.TooManyRequests())
		return
	}
	params := parsePaginationParams(r)
	unread := r.URL.Query().Get("unread") == "true"

	items, err := h.Store.ListNotifications(r.Context(), actor.UserID, unread, params.Limit, params.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// MarkNotificationReadHandler: отметить можно только своё уведомление
func (h *Handler) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	notificationID, err := pathID(r, "notificationId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.Store.GetNotification(r.Context(), notificationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// чужое уведомление выглядит как отсутствующее
	if !access.CanReadNotification(actor, n) {
		h.fail(w, r, apperr.NotFound("notification"))
		return
	}
	if n.Read {
		respond.JSON(w, http.StatusOK, n)
		return
	}

	n, err = h.Store.MarkNotificationRead(r.Context(), notificationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, n)
}

// CreateNotificationHandler - точка входа для внешнего процесса, рассылающего уведомления
func (h *Handler) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationCreate
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	n := &models.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Kind:    req.Kind,
	}
	if err := h.Store.CreateNotification(r.Context(), n); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, n)
}
