package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPassesThrough(t *testing.T) {
	orig := NotFound("job request")
	got := From(fmt.Errorf("lookup: %w", orig))
	require.NotNil(t, got)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestFromWrapsUnknown(t *testing.T) {
	got := From(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.EqualError(t, got.Err, "boom")
}

func TestFromNil(t *testing.T) {
	assert.Nil(t, From(nil))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("bad field"))
	assert.True(t, IsCode(err, "VALIDATION_ERROR"))
	assert.False(t, IsCode(err, "NOT_FOUND"))
	assert.False(t, IsCode(errors.New("plain"), "VALIDATION_ERROR"))
}

// Every credential failure must produce a byte-identical error so callers
// cannot tell registered phones from unknown ones.
func TestInvalidCredentialsIsUniform(t *testing.T) {
	a := InvalidCredentials()
	b := InvalidCredentials()
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.HTTPStatus, b.HTTPStatus)
	assert.Nil(t, a.Err)
}
