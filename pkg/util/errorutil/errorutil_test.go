package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	wrapped := fmt.Errorf("load: %w", NewValidationError("bad", nil))
	assert.Equal(t, CodeValidation, ToDomainError(wrapped).Code)

	notFound := ToDomainError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
}

func TestStorageErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("Failed to create ticket", cause)

	de := ToDomainError(err)
	assert.Equal(t, "Failed to create ticket", de.Message)
	assert.ErrorIs(t, err, cause)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("Ticket", nil)))
	assert.False(t, IsNotFound(NewRateLimited("slow down")))
	assert.False(t, IsNotFound(nil))
}
