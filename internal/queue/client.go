package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/tubefilter/internal/config"
	"github.com/nikhilbhutani/tubefilter/internal/filter"
)

type Client struct {
	client *asynq.Client
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{client: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// OnChange implements filter.ChangeListener.
func (c *Client) OnChange(ctx context.Context, ev filter.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return c.EnqueueConfigChanged(ctx, ConfigChangedPayload{Event: data})
}

func (c *Client) EnqueueConfigChanged(ctx context.Context, payload ConfigChangedPayload) error {
	return c.enqueue(ctx, TypeConfigChanged, payload, asynq.MaxRetry(3), asynq.Timeout(time.Minute))
}

// EnqueueWebhookDeliver schedules one delivery. The task ID is derived from the
// delivery ID, so enqueueing the same delivery twice is a no-op while the first
// task is pending or retained.
func (c *Client) EnqueueWebhookDeliver(ctx context.Context, payload WebhookDeliverPayload) error {
	err := c.enqueue(ctx, TypeWebhookDeliver, payload, deliverOptions(payload)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func deliverOptions(payload WebhookDeliverPayload) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID(TypeWebhookDeliver + ":" + payload.DeliveryID),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		asynq.Retention(24 * time.Hour),
	}
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
