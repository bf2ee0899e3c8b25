package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/middle"
	"github.com/stretchr/testify/assert"
)

func Test_epGetInfo_unauthenticated(t *testing.T) {
	api := newTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	req = req.WithContext(context.WithValue(req.Context(), middle.AuthLoggedIn, false))

	res := api.epGetInfo(req)
	assert.Equal(t, http.StatusOK, res.Status)
}

func Test_epGetInfo_authenticated(t *testing.T) {
	api := newTestAPI()
	user, err := api.Backend.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	req = req.WithContext(context.WithValue(req.Context(), middle.AuthLoggedIn, true))
	req = req.WithContext(context.WithValue(req.Context(), middle.AuthUser, user))

	res := api.epGetInfo(req)
	assert.Equal(t, http.StatusOK, res.Status)
}
