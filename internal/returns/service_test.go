package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_backend/internal/sales"
)

func setup(t *testing.T) (*Service, *LocalStorage, *mockSaleReader) {
	storage := NewLocalStorage()
	saleReader := &mockSaleReader{m: map[string]*sales.Sale{}}
	svc := NewService(storage, saleReader, zaptest.NewLogger(t))
	return svc, storage, saleReader
}

func TestCreateReturn(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, storage, saleReader := setup(t)
		saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCompleted}

		ret, err := svc.CreateReturn("1", "damaged item")

		require.NoError(t, err)
		require.NotNil(t, ret)
		assert.NotEmpty(t, ret.ID)
		assert.Equal(t, "1", ret.SaleID)
		assert.Equal(t, "damaged item", ret.Reason)
		assert.Equal(t, StatusRequested, ret.Status)

		count, err := storage.CountBySaleID("1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("sale not found", func(t *testing.T) {
		svc, _, _ := setup(t)

		ret, err := svc.CreateReturn("999", "damaged item")

		var notFound *sales.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Sale not found with id: 999", err.Error())
		assert.Nil(t, ret)
	})

	t.Run("cancelled sale is refused", func(t *testing.T) {
		svc, _, saleReader := setup(t)
		saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCancelled}

		ret, err := svc.CreateReturn("1", "damaged item")

		var businessRule *sales.BusinessRuleError
		require.ErrorAs(t, err, &businessRule)
		assert.Nil(t, ret)
	})
}

func TestReturnStatusTransitions(t *testing.T) {
	t.Run("process requested return", func(t *testing.T) {
		svc, storage, saleReader := setup(t)
		saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCompleted}
		ret, err := svc.CreateReturn("1", "damaged item")
		require.NoError(t, err)

		processed, err := svc.ProcessReturn(ret.ID)

		require.NoError(t, err)
		assert.Equal(t, StatusProcessed, processed.Status)

		// a processed return no longer blocks sale deletion
		count, err := storage.CountBySaleID("1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("cancel requested return", func(t *testing.T) {
		svc, storage, saleReader := setup(t)
		saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCompleted}
		ret, err := svc.CreateReturn("1", "wrong size")
		require.NoError(t, err)

		cancelled, err := svc.CancelReturn(ret.ID)

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)

		count, err := storage.CountBySaleID("1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("processed return cannot change again", func(t *testing.T) {
		svc, _, saleReader := setup(t)
		saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCompleted}
		ret, err := svc.CreateReturn("1", "damaged item")
		require.NoError(t, err)
		_, err = svc.ProcessReturn(ret.ID)
		require.NoError(t, err)

		_, err = svc.CancelReturn(ret.ID)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown return", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, err := svc.ProcessReturn("missing")

		var notFound *sales.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Return", notFound.Resource)
	})
}

func TestListBySale(t *testing.T) {
	svc, _, saleReader := setup(t)
	saleReader.m["1"] = &sales.Sale{ID: "1", Status: sales.StatusCompleted}
	saleReader.m["2"] = &sales.Sale{ID: "2", Status: sales.StatusCompleted}

	_, err := svc.CreateReturn("1", "damaged item")
	require.NoError(t, err)
	_, err = svc.CreateReturn("1", "wrong size")
	require.NoError(t, err)
	_, err = svc.CreateReturn("2", "changed mind")
	require.NoError(t, err)

	rets, err := svc.ListBySale("1")

	require.NoError(t, err)
	assert.Len(t, rets, 2)

	rets, err = svc.ListBySale("unknown")
	require.NoError(t, err)
	assert.Empty(t, rets)
}

type mockSaleReader struct {
	m map[string]*sales.Sale
}

func (r *mockSaleReader) Read(id string) (*sales.Sale, error) {
	sale, ok := r.m[id]
	if !ok {
		return nil, sales.ErrNotFound
	}
	return sale, nil
}
