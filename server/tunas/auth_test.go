package tunas

import (
	"context"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Login_success(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	u, err := svc.Login(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.LastLoginTime.IsZero())
}

func Test_Login_wrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrongpass")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_Login_unknownUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.Login(context.Background(), "nobody", "hunter2")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_Logout_updatesLastLogoutTime(t *testing.T) {
	svc := newTestService()

	created, err := svc.CreateUser(context.Background(), "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)
	assert.True(t, created.LastLogoutTime.IsZero())

	updated, err := svc.Logout(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, updated.LastLogoutTime.IsZero())
}

func Test_Logout_unknownUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.Logout(context.Background(), uuid.New())
	assert.ErrorIs(t, err, serr.ErrNotFound)
}
