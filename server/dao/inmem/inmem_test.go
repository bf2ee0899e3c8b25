package inmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewDatastore_providesWorkingRepositories(t *testing.T) {
	store := NewDatastore()
	require.NotNil(t, store.Users())
	require.NotNil(t, store.Programs())
}

func Test_NewDatastore_Close_succeedsWhenReposHaveNothingToClean(t *testing.T) {
	store := NewDatastore()
	assert.NoError(t, store.Close())
}
