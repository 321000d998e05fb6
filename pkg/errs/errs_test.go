package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("post 3: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("username taken: %w", ErrConflict), http.StatusConflict},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("emoji: %w", ErrInvalid), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestIsInternal(t *testing.T) {
	assert.False(t, IsInternal(nil))
	assert.False(t, IsInternal(fmt.Errorf("x: %w", ErrConflict)))
	assert.True(t, IsInternal(errors.New("boom")))
}
