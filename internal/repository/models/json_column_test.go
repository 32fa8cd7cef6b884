package models

import (
	"testing"

	"quizforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONColumn_Value(t *testing.T) {
	tests := []struct {
		name string
		col  JSONColumn[[]domain.Flashcard]
		want string
	}{
		{"nil slice", JSONColumn[[]domain.Flashcard]{}, "[]"},
		{"empty slice", NewJSONColumn([]domain.Flashcard{}), "[]"},
		{"one card", NewJSONColumn([]domain.Flashcard{{Front: "f", Back: "b"}}), `[{"front":"f","back":"b"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.col.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONColumn_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []domain.Flashcard
		wantErr bool
	}{
		{"nil", nil, nil, false},
		{"empty string", "", nil, false},
		{"null literal", []byte("null"), nil, false},
		{"string", `[{"front":"f","back":"b"}]`, []domain.Flashcard{{Front: "f", Back: "b"}}, false},
		{"bytes", []byte(`[{"front":"x","back":"y"}]`), []domain.Flashcard{{Front: "x", Back: "y"}}, false},
		{"invalid json", "[{", nil, true},
		{"unsupported type", 42, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var col JSONColumn[[]domain.Flashcard]
			err := col.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.V)
		})
	}
}
