// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package optional distinguishes "absent", "null" and "value" in JSON patch bodies.

A plain pointer cannot tell `{}` from `{"assignee_id": null}`. [Field] can:

	{}                       -> Set == false
	{"assignee_id": null}    -> Set == true, Null == true
	{"assignee_id": "u-1"}   -> Set == true, Value == "u-1"
*/
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON field that remembers whether it was present.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a Field holding value.
func Of[T any](value T) Field[T] {
	return Field[T]{Value: value, Set: true}
}

// Nil returns a Field explicitly set to null.
func Nil[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked when the key is present.
func (field *Field[T]) UnmarshalJSON(data []byte) error {
	field.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		field.Value = zero
		field.Null = true
		return nil
	}
	field.Null = false
	return json.Unmarshal(data, &field.Value)
}

// HasValue reports whether the field was present with a non-null value.
func (field Field[T]) HasValue() bool {
	return field.Set && !field.Null
}

// Apply merges the field into target: absent leaves it untouched, a value replaces it.
// Null is not representable in a non-pointer target and leaves it untouched too.
func (field Field[T]) Apply(target *T) {
	if field.HasValue() {
		*target = field.Value
	}
}

// ApplyPtr merges the field into a nullable target: absent leaves it, null clears it.
func (field Field[T]) ApplyPtr(target **T) {
	switch {
	case !field.Set:
	case field.Null:
		*target = nil
	default:
		value := field.Value
		*target = &value
	}
}
