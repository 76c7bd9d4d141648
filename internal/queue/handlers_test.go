package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlersRegistry_RoutesByType(t *testing.T) {
	var got []string
	r := NewHandlersRegistry()
	r.RegisterFunc(TypeConfigChanged, func(_ context.Context, t *asynq.Task) error {
		got = append(got, t.Type())
		return nil
	})
	r.RegisterFunc(TypeWebhookDeliver, func(context.Context, *asynq.Task) error {
		return errors.New("receiver down")
	})

	ctx := context.Background()
	require.NoError(t, r.Mux().ProcessTask(ctx, asynq.NewTask(TypeConfigChanged, nil)))
	assert.Equal(t, []string{TypeConfigChanged}, got)

	err := r.Mux().ProcessTask(ctx, asynq.NewTask(TypeWebhookDeliver, nil))
	assert.EqualError(t, err, "receiver down")

	assert.Error(t, r.Mux().ProcessTask(ctx, asynq.NewTask("unknown:type", nil)))
}
