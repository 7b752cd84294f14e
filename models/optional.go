package models

import (
	"bytes"
	"encoding/json"
)

// Optional различает три состояния поля в PATCH-запросе:
// поле отсутствует, поле явно равно null, поле задано значением.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o Optional[T]) IsSet() bool  { return o.set }
func (o Optional[T]) IsNull() bool { return o.set && o.null }

func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set && !o.null
}

// Apply переносит состояние на nullable-поле сущности
func (o Optional[T]) Apply(dst **T) {
	if !o.set {
		return
	}
	if o.null {
		*dst = nil
		return
	}
	v := o.value
	*dst = &v
}
