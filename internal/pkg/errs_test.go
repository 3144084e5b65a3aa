package pkg

import (
	"context"
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
		{ErrInvalidParam, http.StatusBadRequest},
		{ErrInvalidCapacity, http.StatusBadRequest},
		{ErrNotMember, http.StatusConflict},
		{ErrEventFull, http.StatusConflict},
		{ErrAdminRequired, http.StatusForbidden},
		{ErrNotAuthorized, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrEventExpired, http.StatusGone},
		{ErrTimeout, http.StatusGatewayTimeout},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}

	// 包装过的错误也能分类
	wrapped := fmt.Errorf("join community: %w", ErrNotMember)
	assert.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}
