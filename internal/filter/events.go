package filter

import (
	"context"
	"time"
)

// Actions recorded for configuration changes.
const (
	ActionSetEnabled       = "filter.set_enabled"
	ActionSetDefaultDeny   = "filter.set_default_deny"
	ActionReplaceConfig    = "filter.replace_config"
	ActionUpdateCategories = "filter.update_categories"
	ActionWhitelistAdd     = "filter.whitelist_add"
	ActionWhitelistRemove  = "filter.whitelist_remove"
	ActionKeywordAdd       = "filter.keyword_add"
	ActionKeywordRemove    = "filter.keyword_remove"
)

// ChangeEvent describes one persisted configuration change.
type ChangeEvent struct {
	Action  string         `json:"action"`
	Subject string         `json:"subject,omitempty"`
	Actor   string         `json:"actor,omitempty"`
	IP      string         `json:"ip,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	At      time.Time      `json:"at"`
}

// ChangeListener is notified after a change has been persisted. Errors are logged
// and never undo the change.
type ChangeListener interface {
	OnChange(ctx context.Context, ev ChangeEvent) error
}

// ListenerFunc adapts a function to ChangeListener.
type ListenerFunc func(ctx context.Context, ev ChangeEvent) error

func (f ListenerFunc) OnChange(ctx context.Context, ev ChangeEvent) error { return f(ctx, ev) }
