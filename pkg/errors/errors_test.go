package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := map[*AppError]int{
		NewValidationError("bad"):            http.StatusBadRequest,
		NewNoFoodDetectedError():             http.StatusBadRequest,
		NewRecipeNotFoundError("r1"):         http.StatusNotFound,
		NewIngredientNotFoundError("i1"):     http.StatusNotFound,
		NewMealPlanNotFoundError("m1"):       http.StatusNotFound,
		NewDuplicateIngredientError("Egg"):   http.StatusConflict,
		NewTooManyRequestsError(time.Second): http.StatusTooManyRequests,
		NewInvalidCredentialsError("x"):      http.StatusBadGateway,
		NewProviderNotConfiguredError("x"):   http.StatusServiceUnavailable,
		NewDatabaseError("save", nil):        http.StatusInternalServerError,
		NewExternalServiceError("svc", nil):  http.StatusBadGateway,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.StatusCode(), string(err.Code))
	}
}

func TestWrapAndIs_SeeThroughWrapping(t *testing.T) {
	inner := NewRecipeNotFoundError("abc")
	wrapped := fmt.Errorf("lookup: %w", inner)

	assert.True(t, Is(wrapped, CodeRecipeNotFound))
	assert.Equal(t, CodeRecipeNotFound, GetCode(wrapped))
	assert.Same(t, inner, Wrap(wrapped, "ignored"))

	plain := stderrors.New("boom")
	appErr := Wrap(plain, "failed")
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, plain)
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestFromValidator(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
		Qty  int    `validate:"gte=0"`
	}
	err := validator.New().Struct(payload{Qty: -1})
	require.Error(t, err)

	appErr := FromValidator(err)
	require.NotNil(t, appErr)
	assert.Equal(t, CodeValidationFailed, appErr.Code)

	details, ok := appErr.Metadata["validation_errors"].(ValidationErrors)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "Name", details[0].Field)
	assert.Equal(t, "required", details[0].Tag)
	assert.Equal(t, "gte", details[1].Tag)
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(NewIngredientNotFoundError("i-9"), "req-1")

	assert.Equal(t, CodeIngredientNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, "i-9", resp.Error.Metadata["ingredient_id"])
	assert.NotEmpty(t, resp.Error.Timestamp)
}
