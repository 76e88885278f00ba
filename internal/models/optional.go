package models

import (
	"bytes"
	"encoding/json"
)

// OptionalFloat is a float64 that may be unavailable. Absent values marshal
// to JSON null so "not computed" never reads as a computed zero.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some wraps a computed value.
func Some(v float64) OptionalFloat { return OptionalFloat{Value: v, Valid: true} }

// None is the absent value.
func None() OptionalFloat { return OptionalFloat{} }

// Get returns the value and whether it is present.
func (o OptionalFloat) Get() (float64, bool) { return o.Value, o.Valid }

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = OptionalFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

var _ json.Marshaler = OptionalFloat{}
var _ json.Unmarshaler = (*OptionalFloat)(nil)
