package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthenticated(""), http.StatusUnauthorized},
		{Forbidden(""), http.StatusForbidden},
		{NotFound(""), http.StatusNotFound},
		{Conflict("approved"), http.StatusConflict},
		{New(ErrRateLimited, "slow down"), http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", Conflict("x")), http.StatusConflict},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.want, Status(tc.err), "Status(%v)", tc.err)
	}
}

func TestMessageHidesRawErrors(t *testing.T) {
	assert.Equal(t, "something went wrong", Message(errors.New("pq: relation does not exist"), "something went wrong"))
	assert.Equal(t, "summary is required", Message(Validation("summary is required"), "x"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(ErrNotFound, "solution not found", cause)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "solution not found", err.Error())
}

func TestIsAuth(t *testing.T) {
	assert.True(t, IsAuth(Unauthenticated("")))
	assert.True(t, IsAuth(Forbidden("")))
	assert.False(t, IsAuth(NotFound("")))
	assert.Equal(t, "you must be signed in", Unauthenticated("").Error())
}
