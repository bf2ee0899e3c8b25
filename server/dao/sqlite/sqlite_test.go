package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	store, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func Test_NewDatastore_createsUsableRepositories(t *testing.T) {
	store := newTestStore(t)
	require.NotNil(t, store.Users())
	require.NotNil(t, store.Programs())
}

func Test_NewDatastore_UsersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Users().Create(ctx, dao.User{Username: "alice", Password: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := store.Users().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, fetched.Username)
}

func Test_NewDatastore_ProgramsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.Users().Create(ctx, dao.User{Username: "alice", Password: "hash"})
	require.NoError(t, err)

	created, err := store.Programs().Create(ctx, dao.Program{
		UserID: user.ID,
		Name:   "dot",
		Source: []byte("p(0,0)d"),
		PNG:    []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)

	fetched, err := store.Programs().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Source, fetched.Source)
	assert.Equal(t, created.PNG, fetched.PNG)
}
