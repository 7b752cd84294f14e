package client

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"procurement/models"
)

const DefaultPollInterval = 30 * time.Second

// Feed периодически запрашивает непрочитанные уведомления текущего пользователя
type Feed struct {
	client   *Client
	interval time.Duration
	logger   *slog.Logger

	mu    sync.RWMutex
	items []models.Notification
}

type FeedOption func(*Feed)

func WithPollInterval(d time.Duration) FeedOption {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

func WithFeedLogger(logger *slog.Logger) FeedOption {
	return func(f *Feed) { f.logger = logger }
}

func NewFeed(c *Client, opts ...FeedOption) *Feed {
	f := &Feed{client: c, interval: DefaultPollInterval, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run опрашивает сервер до отмены ctx. Ошибки опроса только логируются.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if err := f.Refresh(ctx); err != nil && ctx.Err() == nil {
			f.logger.WarnContext(ctx, "notification poll failed", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refresh загружает ленту один раз. 429 от сервера означает пустую ленту, а не ошибку.
func (f *Feed) Refresh(ctx context.Context) error {
	items, err := f.client.Notifications(ctx, true)
	if IsStatus(err, http.StatusTooManyRequests) {
		f.logger.DebugContext(ctx, "notification poll rate limited")
		items, err = nil, nil
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

// MarkRead отмечает уведомление и сразу перечитывает ленту
func (f *Feed) MarkRead(ctx context.Context, id int) error {
	if _, err := f.client.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

func (f *Feed) Items() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Notification, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

func (f *Feed) HasUnread() bool { return f.Count() > 0 }

// Badge - текст значка: пусто без уведомлений, "9+" начиная с десяти
func (f *Feed) Badge() string {
	switch n := f.Count(); {
	case n == 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}
