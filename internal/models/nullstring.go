package models

import (
	"encoding/json"
	"strings"
)

// NullString is an optional string value. Unlike a bare pointer it survives
// the loose representations the extraction pipeline produces: JSON null, a
// missing key, the empty string, and the literal string "null" all decode to
// an invalid NullString.
type NullString struct {
	Value string
	Valid bool
}

// String returns a valid NullString wrapping s, unless s normalizes to absent.
func String(s string) NullString {
	if isNullLiteral(s) {
		return NullString{}
	}
	return NullString{Value: s, Valid: true}
}

// Null returns an invalid NullString.
func Null() NullString {
	return NullString{}
}

// Or returns the wrapped value, or fallback when invalid.
func (n NullString) Or(fallback string) string {
	if n.Valid {
		return n.Value
	}
	return fallback
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*n = String(s)
	return nil
}

// isNullLiteral reports whether s is one of the string spellings of "no
// value" observed in catalog files produced by earlier pipeline versions.
func isNullLiteral(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || strings.EqualFold(trimmed, "null")
}
