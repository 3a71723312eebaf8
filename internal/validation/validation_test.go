package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"omitempty,email"`
	Kind   string  `json:"kind" validate:"required,oneof=a b"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want map[string]string
	}{
		{
			name: "valid",
			in:   sample{Name: "x", Kind: "a", Amount: 1},
			want: map[string]string{},
		},
		{
			name: "every field wrong",
			in:   sample{Email: "nope", Kind: "c"},
			want: map[string]string{
				"name":   "is required",
				"email":  "must be a valid email address",
				"kind":   "must be one of: a, b",
				"amount": "must be greater than 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Struct(tt.in)
			assert.Equal(t, tt.want, v.Errors)
			assert.Equal(t, len(tt.want) == 0, v.Valid())
		})
	}
}

func TestValidator_Helpers(t *testing.T) {
	v := New()
	v.Required("title", "  ")
	v.Required("goal", 0.0)
	v.Positive("amount", -1)
	v.OneOf("status", "paid", "pending", "completed")
	v.Check(true, "ok", "never")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{
		"title":  "is required",
		"goal":   "is required",
		"amount": "must be greater than 0",
		"status": "must be one of: pending, completed",
	}, v.Errors)

	v.AddError("title", "second message")
	assert.Equal(t, "is required", v.Errors["title"])
	assert.Contains(t, v.Error(), "validation failed")
}
