package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageCountBySaleID(t *testing.T) {
	storage := NewLocalStorage()

	require.NoError(t, storage.Set(&Return{ID: "r1", SaleID: "1", Status: StatusRequested}))
	require.NoError(t, storage.Set(&Return{ID: "r2", SaleID: "1", Status: StatusRequested}))
	require.NoError(t, storage.Set(&Return{ID: "r3", SaleID: "1", Status: StatusProcessed}))
	require.NoError(t, storage.Set(&Return{ID: "r4", SaleID: "2", Status: StatusRequested}))
	require.NoError(t, storage.Set(&Return{ID: "r5", SaleID: "1", Status: StatusCancelled}))

	count, err := storage.CountBySaleID("1")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only requested returns count against the sale")

	count, err = storage.CountBySaleID("2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = storage.CountBySaleID("none")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLocalStorageSet(t *testing.T) {
	storage := NewLocalStorage()

	err := storage.Set(&Return{SaleID: "1"})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = storage.Read("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
