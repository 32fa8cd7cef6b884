package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores a value as JSON text. It works for TEXT, CLOB and JSONB
// columns alike since every driver hands the value back as string or bytes.
type JSONColumn[T any] struct {
	V T
}

// NewJSONColumn wraps v.
func NewJSONColumn[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{V: v}
}

// Value implements the driver.Valuer interface
func (c JSONColumn[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(c.V)
	if err != nil {
		return nil, fmt.Errorf("json column: %w", err)
	}
	// nil slices are stored as an empty array, not "null"
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (c *JSONColumn[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("json column: unsupported scan type %T", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, &c.V)
}
