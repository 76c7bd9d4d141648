package models

import (
	"encoding/json"
	"net/netip"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one recorded change to the filter configuration.
type AuditLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Actor     string          `json:"actor,omitempty" db:"actor"`
	Action    string          `json:"action" db:"action"`
	Subject   string          `json:"subject,omitempty" db:"subject"`
	Details   json.RawMessage `json:"details" db:"details"`
	IPAddress *netip.Addr     `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
