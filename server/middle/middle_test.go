package middle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/dao/inmem"
	"github.com/dekarrin/drawlang/server/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("01234567890123456789012345678901")

func newUserRepo(t *testing.T) (dao.UserRepository, dao.User) {
	repo := inmem.NewUsersRepository()
	u, err := repo.Create(context.Background(), dao.User{Username: "alice", Password: "hash"})
	require.NoError(t, err)
	return repo, u
}

func Test_RequireAuth_rejectsMissingToken(t *testing.T) {
	repo, _ := newUserRepo(t)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	handler := RequireAuth(repo, testSecret, 0)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func Test_RequireAuth_allowsValidToken(t *testing.T) {
	repo, u := newUserRepo(t)
	var gotUser dao.User
	var gotLoggedIn bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Context().Value(AuthUser).(dao.User)
		gotLoggedIn = r.Context().Value(AuthLoggedIn).(bool)
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireAuth(repo, testSecret, 0)(next)

	tok, err := token.Generate(testSecret, u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotLoggedIn)
	assert.Equal(t, u.ID, gotUser.ID)
}

func Test_OptionalAuth_allowsMissingToken(t *testing.T) {
	repo, _ := newUserRepo(t)
	var gotLoggedIn bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLoggedIn = r.Context().Value(AuthLoggedIn).(bool)
		w.WriteHeader(http.StatusOK)
	})

	handler := OptionalAuth(repo, testSecret, 0)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gotLoggedIn)
}

func Test_DontPanic_recoversAndReturns500(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := DontPanic()(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
