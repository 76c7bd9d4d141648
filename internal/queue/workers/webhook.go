package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
	"github.com/nikhilbhutani/tubefilter/internal/queue"
	"github.com/nikhilbhutani/tubefilter/internal/webhook"
)

// Enqueuer schedules individual webhook deliveries.
type Enqueuer interface {
	EnqueueWebhookDeliver(ctx context.Context, payload queue.WebhookDeliverPayload) error
}

// WebhookWorker fans a config change out into one delivery task per subscriber and
// performs those deliveries, so a failing endpoint is retried on its own.
type WebhookWorker struct {
	dispatcher *webhook.Dispatcher
	enqueuer   Enqueuer
}

func NewWebhookWorker(d *webhook.Dispatcher, e Enqueuer) *WebhookWorker {
	return &WebhookWorker{dispatcher: d, enqueuer: e}
}

func (w *WebhookWorker) ProcessConfigChanged(ctx context.Context, t *asynq.Task) error {
	var payload queue.ConfigChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	var ev filter.ChangeEvent
	if err := json.Unmarshal(payload.Event, &ev); err != nil {
		return fmt.Errorf("unmarshal change event: %v: %w", err, asynq.SkipRetry)
	}

	reqs, err := w.dispatcher.Requests(ev)
	if err != nil {
		return fmt.Errorf("build deliveries: %w", err)
	}

	slog.Info("fanning out config change", "action", ev.Action, "subscribers", len(reqs))
	for _, req := range reqs {
		err := w.enqueuer.EnqueueWebhookDeliver(ctx, queue.WebhookDeliverPayload{
			DeliveryID: deliveryID(payload.Event, req.URL).String(),
			URL:        req.URL,
			Event:      req.Event,
			Payload:    string(req.Payload),
		})
		if err != nil {
			return fmt.Errorf("enqueue delivery to %s: %w", req.URL, err)
		}
	}
	return nil
}

// deliveryID is stable for one (event, URL) pair so a retried fan-out maps onto
// the deliveries it already enqueued.
func deliveryID(event []byte, url string) uuid.UUID {
	name := make([]byte, 0, len(event)+1+len(url))
	name = append(name, event...)
	name = append(name, 0)
	name = append(name, url...)
	return uuid.NewSHA1(uuid.NameSpaceURL, name)
}

func (w *WebhookWorker) ProcessDeliver(ctx context.Context, t *asynq.Task) error {
	var payload queue.WebhookDeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := uuid.Parse(payload.DeliveryID)
	if err != nil {
		return fmt.Errorf("parse delivery ID: %v: %w", err, asynq.SkipRetry)
	}

	err = w.dispatcher.Deliver(ctx, webhook.DeliveryRequest{
		ID:      id,
		URL:     payload.URL,
		Event:   payload.Event,
		Payload: []byte(payload.Payload),
	})
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	slog.Info("webhook delivered", "delivery_id", id, "event", payload.Event)
	return nil
}
