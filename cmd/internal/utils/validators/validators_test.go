package validators

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Data   string  `validate:"required,isodate"`
	Status *string `validate:"omitempty,rewardstatus"`
}

func TestRegister(t *testing.T) {
	validate := validator.New()
	Register(validate)

	sim := "Sim"
	bogus := "Pago"

	assert.NoError(t, validate.Struct(&sample{Data: "2025-01-10", Status: &sim}))
	assert.NoError(t, validate.Struct(&sample{Data: "2025-01-10T15:04:05-03:00"}))
	assert.Error(t, validate.Struct(&sample{Data: "10/01/2025"}))
	assert.Error(t, validate.Struct(&sample{Data: "2025-01-10", Status: &bogus}))
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-01-10T23:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("2025-13-01")
	assert.False(t, ok)
}

type named struct {
	IndicadorID string `json:"indicador_id" validate:"required"`
	Nota        string `validate:"required"`
}

func TestRegister_ReportsJSONNames(t *testing.T) {
	validate := validator.New()
	Register(validate)

	var ve validator.ValidationErrors
	require.ErrorAs(t, validate.Struct(&named{}), &ve)
	require.Len(t, ve, 2)
	assert.Equal(t, "indicador_id", ve[0].Field())
	assert.Equal(t, "Nota", ve[1].Field())
}
