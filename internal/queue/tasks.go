package queue

const (
	TypeConfigChanged  = "filter:config_changed"
	TypeWebhookDeliver = "webhook:deliver"
)

// ConfigChangedPayload carries a filter.ChangeEvent encoded as JSON.
type ConfigChangedPayload struct {
	Event []byte `json:"event"`
}

type WebhookDeliverPayload struct {
	DeliveryID string `json:"delivery_id"`
	URL        string `json:"url"`
	Event      string `json:"event"`
	Payload    string `json:"payload"` // JSON string
}
