package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemoryUsersRepository_CreateAndGetByID(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, dao.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.NotZero(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func Test_InMemoryUsersRepository_CreateDuplicateUsername_isConstraintViolation(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, dao.User{Username: "bob"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, dao.User{Username: "bob"})
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}

func Test_InMemoryUsersRepository_GetByUsername_notFound(t *testing.T) {
	repo := NewUsersRepository()
	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_InMemoryUsersRepository_Delete_removesFromBothIndexes(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, dao.User{Username: "carol"})
	require.NoError(t, err)

	_, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "carol")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_InMemoryUsersRepository_Update_rejectsUsernameCollision(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, dao.User{Username: "dave"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, dao.User{Username: "erin"})
	require.NoError(t, err)

	b.Username = a.Username
	_, err = repo.Update(ctx, b.ID, b)
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}
