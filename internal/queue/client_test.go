package queue

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

func TestDeliverOptions_TaskIDFromDeliveryID(t *testing.T) {
	opts := deliverOptions(WebhookDeliverPayload{DeliveryID: "d-1", URL: "https://a.example/hook"})

	values := map[asynq.OptionType]interface{}{}
	for _, o := range opts {
		values[o.Type()] = o.Value()
	}
	assert.Equal(t, "webhook:deliver:d-1", values[asynq.TaskIDOpt])
	assert.Contains(t, values, asynq.RetentionOpt)
	assert.Equal(t, 5, values[asynq.MaxRetryOpt])
}
