package inmem

import (
	"context"
	"testing"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemoryProgramsRepository_CreateAndGetByID(t *testing.T) {
	repo := NewProgramsRepository()
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, dao.Program{UserID: userID, Name: "dot", Source: "p(0,0)d"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "dot", created.Name)
	assert.False(t, created.Created.IsZero())
	assert.Equal(t, created.Created, created.Modified)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func Test_InMemoryProgramsRepository_GetByID_notFound(t *testing.T) {
	repo := NewProgramsRepository()
	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_InMemoryProgramsRepository_GetAllByUser_isolatesByUser(t *testing.T) {
	repo := NewProgramsRepository()
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	progA1, err := repo.Create(ctx, dao.Program{UserID: userA, Name: "a1"})
	require.NoError(t, err)
	progA2, err := repo.Create(ctx, dao.Program{UserID: userA, Name: "a2"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, dao.Program{UserID: userB, Name: "b1"})
	require.NoError(t, err)

	all, err := repo.GetAllByUser(ctx, userA)
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []uuid.UUID{all[0].ID, all[1].ID}
	assert.Contains(t, ids, progA1.ID)
	assert.Contains(t, ids, progA2.ID)
}

func Test_InMemoryProgramsRepository_GetAll_sortedByID(t *testing.T) {
	repo := NewProgramsRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, dao.Program{UserID: uuid.New(), Name: "one"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, dao.Program{UserID: uuid.New(), Name: "two"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].ID.String() < all[1].ID.String())
}

func Test_InMemoryProgramsRepository_Update_movesBetweenUsers(t *testing.T) {
	repo := NewProgramsRepository()
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	created, err := repo.Create(ctx, dao.Program{UserID: userA, Name: "moveme"})
	require.NoError(t, err)

	updated := created
	updated.UserID = userB
	saved, err := repo.Update(ctx, created.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, userB, saved.UserID)
	assert.Equal(t, created.Created, saved.Created)
	assert.True(t, saved.Modified.After(created.Modified) || saved.Modified.Equal(created.Modified))

	fromA, err := repo.GetAllByUser(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, fromA)

	fromB, err := repo.GetAllByUser(ctx, userB)
	require.NoError(t, err)
	require.Len(t, fromB, 1)
	assert.Equal(t, created.ID, fromB[0].ID)
}

func Test_InMemoryProgramsRepository_Update_missingID(t *testing.T) {
	repo := NewProgramsRepository()
	_, err := repo.Update(context.Background(), uuid.New(), dao.Program{})
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_InMemoryProgramsRepository_Delete_removesFromUserIndex(t *testing.T) {
	repo := NewProgramsRepository()
	ctx := context.Background()
	userID := uuid.New()

	created, err := repo.Create(ctx, dao.Program{UserID: userID, Name: "gone"})
	require.NoError(t, err)

	_, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	all, err := repo.GetAllByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
