package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexRequest struct {
	Name  string  `validate:"required,min=1"`
	Price float64 `validate:"gte=0"`
	Size  int     `validate:"lte=100"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(indexRequest{Name: "iPhone 14", Price: 799, Size: 10})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(indexRequest{Price: 1})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "is required", valErr.Fields()["Name"])
	assert.Contains(t, valErr.Error(), "field 'Name' is required")
}

func TestValidate_MultipleFailures(t *testing.T) {
	err := Validate(indexRequest{Price: -5, Size: 500})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	fields := valErr.Fields()
	assert.Len(t, fields, 3)
	assert.Equal(t, "must be greater than or equal to 0", fields["Price"])
	assert.Equal(t, "must be at most 100", fields["Size"])
}
