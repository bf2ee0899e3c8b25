package tunas

import (
	"context"
	"testing"

	"github.com/dekarrin/drawlang/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RunAndCreateProgram_success(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	prog, err := svc.RunAndCreateProgram(context.Background(), userID, "dot", []byte("p(0,0)d"))
	require.NoError(t, err)
	assert.NotZero(t, prog.ID)
	assert.Equal(t, userID, prog.UserID)
	assert.Equal(t, "dot", prog.Name)
	assert.NotEmpty(t, prog.PNG)
}

func Test_RunAndCreateProgram_blankName(t *testing.T) {
	svc := newTestService()

	_, err := svc.RunAndCreateProgram(context.Background(), uuid.New(), "", []byte("p(0,0)d"))
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_RunAndCreateProgram_syntaxError(t *testing.T) {
	svc := newTestService()

	// missing the closing ')' for the loop block
	_, err := svc.RunAndCreateProgram(context.Background(), uuid.New(), "broken", []byte("L 3 p(0,0) d"))
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_RunAndCreateProgram_runtimeError_doesNotPersist(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	_, err := svc.RunAndCreateProgram(context.Background(), userID, "div0", []byte("r(1/0)d"))
	assert.ErrorIs(t, err, serr.ErrBadArgument)

	all, getErr := svc.GetAllProgramsByUser(context.Background(), userID)
	require.NoError(t, getErr)
	assert.Empty(t, all)
}

func Test_GetProgram_success(t *testing.T) {
	svc := newTestService()

	created, err := svc.RunAndCreateProgram(context.Background(), uuid.New(), "dot", []byte("p(0,0)d"))
	require.NoError(t, err)

	fetched, err := svc.GetProgram(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func Test_GetProgram_notFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetProgram(context.Background(), uuid.New())
	assert.ErrorIs(t, err, serr.ErrNotFound)
}

func Test_DeleteProgram_success(t *testing.T) {
	svc := newTestService()

	created, err := svc.RunAndCreateProgram(context.Background(), uuid.New(), "dot", []byte("p(0,0)d"))
	require.NoError(t, err)

	deleted, err := svc.DeleteProgram(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetProgram(context.Background(), created.ID)
	assert.ErrorIs(t, err, serr.ErrNotFound)
}

func Test_GetAllProgramsByUser_onlyOwnedPrograms(t *testing.T) {
	svc := newTestService()
	userA := uuid.New()
	userB := uuid.New()

	_, err := svc.RunAndCreateProgram(context.Background(), userA, "a", []byte("p(0,0)d"))
	require.NoError(t, err)
	_, err = svc.RunAndCreateProgram(context.Background(), userB, "b", []byte("p(0,0)d"))
	require.NoError(t, err)

	all, err := svc.GetAllProgramsByUser(context.Background(), userA)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Name)
}
