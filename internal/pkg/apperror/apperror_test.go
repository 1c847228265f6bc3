package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithErr_MatchesSentinel(t *testing.T) {
	sentinel := New(http.StatusServiceUnavailable, "store unavailable")
	cause := errors.New("connection refused")

	err := sentinel.WithErr(cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store unavailable", err.Error())
	assert.Nil(t, sentinel.Err, "sentinel must not be modified")
}

func TestIs_DifferentSentinels(t *testing.T) {
	a := New(http.StatusConflict, "slot taken")
	b := New(http.StatusConflict, "already cancelled")

	assert.NotErrorIs(t, a, b)
	assert.NotErrorIs(t, Wrap(nil, http.StatusNotFound, "slot taken"), a)
}
