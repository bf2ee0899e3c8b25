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

func Test_epCreateUser_success(t *testing.T) {
	api := newTestAPI()

	req := jsonRequest(t, http.MethodPost, "/api/v1/users", UserModel{Username: "alice", Password: "hunter2"})
	res := api.epCreateUser(req)

	assert.Equal(t, http.StatusCreated, res.Status)
}

func Test_epCreateUser_duplicateUsername(t *testing.T) {
	api := newTestAPI()
	_, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Unverified)
	require.NoError(t, err)

	req := jsonRequest(t, http.MethodPost, "/api/v1/users", UserModel{Username: "alice", Password: "different"})
	res := api.epCreateUser(req)

	assert.Equal(t, http.StatusConflict, res.Status)
}

func Test_epCreateUser_roleRequiresAdmin(t *testing.T) {
	api := newTestAPI()

	req := jsonRequest(t, http.MethodPost, "/api/v1/users", UserModel{Username: "alice", Password: "hunter2", Role: "admin"})
	res := api.epCreateUser(req)

	assert.Equal(t, http.StatusForbidden, res.Status)
}

func Test_epGetAllUsers_requiresAdmin(t *testing.T) {
	api := newTestAPI()
	user, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req = withAuthUser(req, user)

	res := api.epGetAllUsers(req)
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func Test_epGetAllUsers_adminAllowed(t *testing.T) {
	api := newTestAPI()
	admin, err := api.Backend.CreateUser(context.Background(), "root", "hunter2", "", dao.Admin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req = withAuthUser(req, admin)

	res := api.epGetAllUsers(req)
	assert.Equal(t, http.StatusOK, res.Status)
}

func Test_epGetUser_self(t *testing.T) {
	api := newTestAPI()
	user, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+user.ID.String(), nil)
	req = withIDParam(req, user.ID.String())
	req = withAuthUser(req, user)

	res := api.epGetUser(req)
	assert.Equal(t, http.StatusOK, res.Status)
}

func Test_epGetUser_forbiddenForOtherNonAdmin(t *testing.T) {
	api := newTestAPI()
	alice, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)
	bob, err := api.Backend.CreateUser(context.Background(), "bob", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+alice.ID.String(), nil)
	req = withIDParam(req, alice.ID.String())
	req = withAuthUser(req, bob)

	res := api.epGetUser(req)
	assert.Equal(t, http.StatusForbidden, res.Status)
}
