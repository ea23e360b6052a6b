package domain

import (
	"encoding/json/v2"
)

type optionalState uint8

const (
	stateUnchanged optionalState = iota
	stateSet
	stateCleared
)

// Optional is a partial-update field with three states:
// Unchanged (the zero value, omitted from the request body),
// Set (sent as the value) and Cleared (sent as JSON null).
//
// Tag fields with `json:",omitzero"` so Unchanged is left out of the body.
type Optional[T any] struct {
	value T
	state optionalState
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, state: stateSet}
}

// Clear returns an Optional that removes the current value.
func Clear[T any]() Optional[T] {
	return Optional[T]{state: stateCleared}
}

// IsZero reports whether the field is Unchanged. Used by omitzero.
func (o Optional[T]) IsZero() bool {
	return o.state == stateUnchanged
}

// IsSet reports whether the field carries a new value.
func (o Optional[T]) IsSet() bool {
	return o.state == stateSet
}

// IsCleared reports whether the field removes the current value.
func (o Optional[T]) IsCleared() bool {
	return o.state == stateCleared
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == stateSet
}

// ApplyPtr writes the change into a nullable field.
func (o Optional[T]) ApplyPtr(dst **T) {
	switch o.state {
	case stateSet:
		v := o.value
		*dst = &v
	case stateCleared:
		*dst = nil
	}
}

// ApplyValue writes the change into a plain field; Cleared resets it to the zero value.
func (o Optional[T]) ApplyValue(dst *T) {
	switch o.state {
	case stateSet:
		*dst = o.value
	case stateCleared:
		var zero T
		*dst = zero
	}
}

// MarshalJSON encodes Set as the value and everything else as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != stateSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// OptionalFromPtr maps a nil pointer to Cleared and a value to Set.
func OptionalFromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Clear[T]()
	}
	return Set(*p)
}
