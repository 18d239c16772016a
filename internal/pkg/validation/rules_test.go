package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string  `json:"name" validate:"notblank"`
	Title *string `json:"title" validate:"omitempty,notblank"`
}

func TestNotBlank(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.RegisterValidation("notblank", NotBlank))

	assert.NoError(t, v.Struct(sample{Name: "Algorithms"}))
	assert.Error(t, v.Struct(sample{Name: "   "}))
	assert.Error(t, v.Struct(sample{Name: ""}))

	blank := " \t"
	assert.Error(t, v.Struct(sample{Name: "ok", Title: &blank}))
}

func TestRegisterCustomValidationsIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterCustomValidations()
		RegisterCustomValidations()
	})
}
