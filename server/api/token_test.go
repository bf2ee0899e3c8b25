package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_epCreateToken_success(t *testing.T) {
	api := newTestAPI()
	user, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req = withAuthUser(req, user)

	res := api.epCreateToken(req)
	assert.Equal(t, http.StatusCreated, res.Status)
}
