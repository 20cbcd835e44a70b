package handler

import (
	"context"
	"testing"

	"github.com/ashmetov/booklib/public/internal/errs"
	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumer_SetupAcrossSessions(t *testing.T) {
	t.Parallel()

	// the consume loop reuses one handler instance for every session, so a
	// group rebalance runs Setup again on the same consumer
	consumer := NewConsumer(nil, nil, zap.NewNop())
	require.NotPanics(t, func() {
		require.NoError(t, consumer.Setup(nil))
		require.NoError(t, consumer.Setup(nil))
	})
}

func TestConsumer_Apply(t *testing.T) {
	t.Parallel()

	var upserted []string
	var deleted []string
	consumer := NewConsumer(
		func(_ context.Context, req model.SyncBookRequest) (model.Book, bool, error) {
			upserted = append(upserted, req.ISBN)
			return model.Book{}, true, nil
		},
		func(_ context.Context, isbn string) error {
			deleted = append(deleted, isbn)
			return errs.ErrNotFound
		},
		zap.NewNop(),
	)

	err := consumer.apply(context.Background(), model.SyncMessage{
		Kind: model.SyncKindUpsert,
		ISBN: "1234567890123",
		Book: &model.SyncBookRequest{ISBN: "1234567890123"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1234567890123"}, upserted)

	// deleting an isbn the catalog never had still converges
	err = consumer.apply(context.Background(), model.SyncMessage{
		Kind: model.SyncKindDelete,
		ISBN: "1234567890123",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1234567890123"}, deleted)

	err = consumer.apply(context.Background(), model.SyncMessage{Kind: model.SyncKindUpsert})
	require.Error(t, err)

	err = consumer.apply(context.Background(), model.SyncMessage{Kind: "rename"})
	require.Error(t, err)
}
