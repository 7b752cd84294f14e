package idempotency

import (
	"context"
	"time"
)

// Record - состояние ключа идемпотентности.
// Пока Done == false запрос с этим ключом ещё выполняется.
type Record struct {
	Fingerprint uint64 `json:"fingerprint"`
	Done        bool   `json:"done"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type Store interface {
	// Reserve атомарно занимает ключ. Если ключ уже занят,
	// возвращает существующую запись и reserved == false.
	Reserve(ctx context.Context, key string, fingerprint uint64, ttl time.Duration) (existing *Record, reserved bool, err error)
	Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
