package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
)

// DeliveryRequest is one signed POST of a change event to one endpoint.
type DeliveryRequest struct {
	ID      uuid.UUID
	URL     string
	Event   string
	Payload []byte
}

// Dispatcher posts configuration change events to subscriber URLs. Used in-process
// it queues deliveries on a buffered channel; the queue worker calls Deliver directly.
type Dispatcher struct {
	urls       []string
	secret     string
	httpClient *http.Client
	deliveries chan DeliveryRequest
}

func NewDispatcher(urls []string, secret string) *Dispatcher {
	return &Dispatcher{
		urls:   urls,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Start launches the in-process delivery loop. It stops when ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	d.deliveries = make(chan DeliveryRequest, 1000)
	go d.processLoop(ctx)
}

// OnChange implements filter.ChangeListener by queueing one delivery per URL.
func (d *Dispatcher) OnChange(_ context.Context, ev filter.ChangeEvent) error {
	reqs, err := d.Requests(ev)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		d.Enqueue(req)
	}
	return nil
}

// Requests builds one delivery request per configured URL.
func (d *Dispatcher) Requests(ev filter.ChangeEvent) ([]DeliveryRequest, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	reqs := make([]DeliveryRequest, 0, len(d.urls))
	for _, u := range d.urls {
		reqs = append(reqs, DeliveryRequest{ID: uuid.New(), URL: u, Event: ev.Action, Payload: payload})
	}
	return reqs, nil
}

func (d *Dispatcher) Enqueue(req DeliveryRequest) {
	if d.deliveries == nil {
		slog.Warn("webhook dispatcher not started, dropping", "delivery_id", req.ID, "event", req.Event)
		return
	}
	select {
	case d.deliveries <- req:
	default:
		slog.Warn("webhook delivery queue full, dropping", "delivery_id", req.ID, "event", req.Event)
	}
}

func (d *Dispatcher) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.deliveries:
			reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := d.Deliver(reqCtx, req); err != nil {
				slog.Error("webhook delivery failed", "error", err, "delivery_id", req.ID, "url", req.URL)
			}
			cancel()
		}
	}
}

// Deliver performs a single signed POST. A non-2xx response is an error so the
// queue can retry it.
func (d *Dispatcher) Deliver(ctx context.Context, req DeliveryRequest) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-Event", req.Event)
	httpReq.Header.Set("X-Webhook-Signature", Sign(req.Payload, d.secret))
	httpReq.Header.Set("X-Webhook-ID", req.ID.String())

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %d", req.URL, resp.StatusCode)
	}
	slog.Debug("webhook delivered", "delivery_id", req.ID, "event", req.Event, "status", resp.StatusCode)
	return nil
}

// Sign returns the X-Webhook-Signature value for payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
