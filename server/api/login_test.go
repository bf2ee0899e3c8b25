package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/dao/inmem"
	"github.com/dekarrin/drawlang/server/tunas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI() API {
	return API{
		Backend: tunas.Service{DB: inmem.NewDatastore()},
		Secret:  []byte("01234567890123456789012345678901"),
	}
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func Test_epCreateLogin_success(t *testing.T) {
	api := newTestAPI()
	_, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := jsonRequest(t, http.MethodPost, "/api/v1/login", LoginRequest{Username: "alice", Password: "hunter2"})
	res := api.epCreateLogin(req)

	assert.Equal(t, http.StatusCreated, res.Status)
}

func Test_epCreateLogin_badCredentials(t *testing.T) {
	api := newTestAPI()
	_, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := jsonRequest(t, http.MethodPost, "/api/v1/login", LoginRequest{Username: "alice", Password: "wrong"})
	res := api.epCreateLogin(req)

	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func Test_epCreateLogin_blankUsername(t *testing.T) {
	api := newTestAPI()

	req := jsonRequest(t, http.MethodPost, "/api/v1/login", LoginRequest{Username: "", Password: "hunter2"})
	res := api.epCreateLogin(req)

	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func Test_epDeleteLogin_selfLogout(t *testing.T) {
	api := newTestAPI()
	user, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/login/"+user.ID.String(), nil)
	req = withIDParam(req, user.ID.String())
	req = withAuthUser(req, user)

	res := api.epDeleteLogin(req)
	assert.Equal(t, http.StatusNoContent, res.Status)
}
