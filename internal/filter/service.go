package filter

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/nikhilbhutani/tubefilter/internal/actor"
	"github.com/nikhilbhutani/tubefilter/internal/metrics"
	"github.com/nikhilbhutani/tubefilter/internal/models"
	"github.com/nikhilbhutani/tubefilter/internal/store"
)

// Service evaluates content against the persisted configuration and applies admin
// changes to it. It keeps no configuration in memory: every call loads from the
// store, so a change is visible to the very next evaluation.
type Service struct {
	store     store.Store
	metrics   *metrics.Metrics
	listeners []ChangeListener
	now       func() time.Time
}

func NewService(s store.Store, m *metrics.Metrics, listeners ...ChangeListener) *Service {
	return &Service{
		store:     s,
		metrics:   m,
		listeners: listeners,
		now:       time.Now,
	}
}

// AddListener registers l for change notifications.
func (s *Service) AddListener(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Config loads the current configuration.
func (s *Service) Config(ctx context.Context) (*models.FilterConfiguration, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.ObserveStoreError("load")
		return nil, err
	}
	return cfg, nil
}

// FilterContent evaluates a single descriptor. Store failures are returned as-is;
// there is no fallback verdict.
func (s *Service) FilterContent(ctx context.Context, d models.ContentDescriptor) (models.FilterVerdict, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return models.FilterVerdict{}, err
	}
	v := Evaluate(d, cfg)
	s.metrics.ObserveVerdict(v)
	return v, nil
}

// BatchResult holds per-item verdicts plus the allowed items capped at MaxResults.
type BatchResult struct {
	Verdicts   []models.FilterVerdict     `json:"verdicts"`
	Visible    []models.ContentDescriptor `json:"visible"`
	MaxResults int                        `json:"maxResults"`
}

// FilterBatch loads the configuration once and evaluates every descriptor against
// that snapshot.
func (s *Service) FilterBatch(ctx context.Context, ds []models.ContentDescriptor) (*BatchResult, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	verdicts := EvaluateBatch(ds, cfg)
	for _, v := range verdicts {
		s.metrics.ObserveVerdict(v)
	}
	return &BatchResult{
		Verdicts:   verdicts,
		Visible:    Visible(ds, verdicts, cfg.MaxResults),
		MaxResults: cfg.MaxResults,
	}, nil
}

// Stats summarizes the current configuration.
func (s *Service) Stats(ctx context.Context) (models.FilterStats, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return models.FilterStats{}, err
	}
	return ComputeStats(cfg), nil
}

// ComputeStats derives the stats view from cfg without side effects.
func ComputeStats(cfg *models.FilterConfiguration) models.FilterStats {
	byType := make(map[models.ContentType]int, len(models.ContentTypes))
	for _, t := range models.ContentTypes {
		byType[t] = 0
	}
	for _, e := range cfg.Whitelist {
		byType[e.Type]++
	}
	return models.FilterStats{
		TotalWhitelisted:     len(cfg.Whitelist),
		WhitelistedByType:    byType,
		AllowedCategories:    slices.Clone(cfg.AllowedCategories),
		BlockedKeywordsCount: len(cfg.BlockedKeywords),
		Enabled:              cfg.Enabled,
		DefaultDeny:          cfg.DefaultDeny,
	}
}

// ---- flags ----

func (s *Service) SetEnabled(ctx context.Context, enabled bool) (*models.FilterConfiguration, error) {
	ev := ChangeEvent{Action: ActionSetEnabled, Details: map[string]any{"enabled": enabled}}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if c.Enabled == enabled {
			return false, nil
		}
		c.Enabled = enabled
		return true, nil
	})
	return cfg, err
}

func (s *Service) SetDefaultDeny(ctx context.Context, deny bool) (*models.FilterConfiguration, error) {
	ev := ChangeEvent{Action: ActionSetDefaultDeny, Details: map[string]any{"defaultDeny": deny}}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if c.DefaultDeny == deny {
			return false, nil
		}
		c.DefaultDeny = deny
		return true, nil
	})
	return cfg, err
}

// ConfigPatch carries the fields of a partial configuration replace. Nil fields are
// left untouched.
type ConfigPatch struct {
	Enabled           *bool                    `json:"enabled"`
	DefaultDeny       *bool                    `json:"defaultDeny"`
	AllowedCategories *[]string                `json:"allowedCategories"`
	Whitelist         *[]models.WhitelistEntry `json:"whitelist"`
	BlockedKeywords   *[]string                `json:"blockedKeywords"`
	MaxResults        *int                     `json:"maxResults"`
}

// ReplaceConfig merges the given fields over the current configuration and persists
// the result. The patch is validated in full before anything is written.
func (s *Service) ReplaceConfig(ctx context.Context, p ConfigPatch) (*models.FilterConfiguration, error) {
	var cats []models.CategoryID
	if p.AllowedCategories != nil {
		parsed, err := ParseCategories(*p.AllowedCategories)
		if err != nil {
			return nil, err
		}
		cats = dedupCategories(parsed)
	}

	var whitelist []models.WhitelistEntry
	if p.Whitelist != nil {
		wl, err := normalizeWhitelist(*p.Whitelist, s.now())
		if err != nil {
			return nil, err
		}
		whitelist = wl
	}

	var keywords []string
	if p.BlockedKeywords != nil {
		for i, kw := range *p.BlockedKeywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			if _, err := ValidateKeyword(kw); err != nil {
				return nil, invalid(fmt.Sprintf("blockedKeywords[%d]", i),
					"keyword must be at least %d characters", MinKeywordLength)
			}
		}
		keywords = normalizeKeywords(*p.BlockedKeywords)
	}

	if p.MaxResults != nil && *p.MaxResults < 0 {
		return nil, invalid("maxResults", "maxResults must not be negative")
	}

	ev := ChangeEvent{Action: ActionReplaceConfig, Details: map[string]any{"fields": p.fields()}}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if p.Enabled != nil {
			c.Enabled = *p.Enabled
		}
		if p.DefaultDeny != nil {
			c.DefaultDeny = *p.DefaultDeny
		}
		if p.AllowedCategories != nil {
			c.AllowedCategories = slices.Clone(cats)
		}
		if p.Whitelist != nil {
			c.Whitelist = slices.Clone(whitelist)
		}
		if p.BlockedKeywords != nil {
			c.BlockedKeywords = slices.Clone(keywords)
		}
		if p.MaxResults != nil {
			c.MaxResults = *p.MaxResults
		}
		return true, nil
	})
	return cfg, err
}

func (p ConfigPatch) fields() []string {
	var f []string
	if p.Enabled != nil {
		f = append(f, "enabled")
	}
	if p.DefaultDeny != nil {
		f = append(f, "defaultDeny")
	}
	if p.AllowedCategories != nil {
		f = append(f, "allowedCategories")
	}
	if p.Whitelist != nil {
		f = append(f, "whitelist")
	}
	if p.BlockedKeywords != nil {
		f = append(f, "blockedKeywords")
	}
	if p.MaxResults != nil {
		f = append(f, "maxResults")
	}
	return f
}

// ---- categories ----

// ListCategories returns every lexicon category with its enabled state.
func (s *Service) ListCategories(ctx context.Context) ([]models.CategoryInfo, []models.CategoryID, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, nil, err
	}
	out := make([]models.CategoryInfo, 0, len(categoryOrder))
	for _, id := range categoryOrder {
		out = append(out, models.CategoryInfo{ID: id, Label: Label(id), Enabled: cfg.HasCategory(id)})
	}
	return out, cfg.AllowedCategories, nil
}

// UpdateAllowedCategories replaces the allowed set. Ids must already be validated;
// duplicates are dropped keeping first occurrence order.
func (s *Service) UpdateAllowedCategories(ctx context.Context, cats []models.CategoryID) ([]models.CategoryID, error) {
	next := dedupCategories(cats)
	ev := ChangeEvent{Action: ActionUpdateCategories, Details: map[string]any{"categories": next}}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if slices.Equal(c.AllowedCategories, next) {
			return false, nil
		}
		c.AllowedCategories = slices.Clone(next)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return cfg.AllowedCategories, nil
}

// SetCategoryEnabled adds or removes one category while keeping the rest.
func (s *Service) SetCategoryEnabled(ctx context.Context, id models.CategoryID, enabled bool) ([]models.CategoryID, error) {
	ev := ChangeEvent{
		Action:  ActionUpdateCategories,
		Subject: string(id),
		Details: map[string]any{"category": id, "enabled": enabled},
	}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		has := c.HasCategory(id)
		switch {
		case enabled && !has:
			c.AllowedCategories = append(c.AllowedCategories, id)
			return true, nil
		case !enabled && has:
			c.AllowedCategories = slices.DeleteFunc(c.AllowedCategories, func(x models.CategoryID) bool { return x == id })
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return cfg.AllowedCategories, nil
}

// ---- whitelist ----

func (s *Service) ListWhitelist(ctx context.Context) ([]models.WhitelistEntry, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Whitelist, nil
}

// AddToWhitelist adds an entry for (externalID, t). If one already exists it is
// returned unchanged and nothing is written.
func (s *Service) AddToWhitelist(ctx context.Context, externalID string, t models.ContentType, title, reason string) (models.WhitelistEntry, error) {
	a := actor.FromContext(ctx)
	var entry models.WhitelistEntry

	ev := ChangeEvent{
		Action:  ActionWhitelistAdd,
		Subject: string(t) + ":" + externalID,
		Details: map[string]any{"title": title, "reason": reason},
	}
	_, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if i := c.FindWhitelisted(externalID, t); i >= 0 {
			entry = c.Whitelist[i]
			return false, nil
		}
		now := s.now()
		entry = models.WhitelistEntry{
			ID:         entryID(t, externalID, now),
			Type:       t,
			ExternalID: externalID,
			Title:      title,
			AddedAt:    now.UTC(),
			AddedBy:    a.Subject,
			Reason:     reason,
		}
		c.Whitelist = append(c.Whitelist, entry)
		return true, nil
	})
	if err != nil {
		return models.WhitelistEntry{}, err
	}
	return entry, nil
}

// RemoveFromWhitelist deletes every entry matching (externalID, t) and reports
// whether any was removed.
func (s *Service) RemoveFromWhitelist(ctx context.Context, externalID string, t models.ContentType) (bool, error) {
	ev := ChangeEvent{Action: ActionWhitelistRemove, Subject: string(t) + ":" + externalID}
	_, changed, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		before := len(c.Whitelist)
		c.Whitelist = slices.DeleteFunc(c.Whitelist, func(e models.WhitelistEntry) bool {
			return e.ExternalID == externalID && e.Type == t
		})
		return len(c.Whitelist) != before, nil
	})
	return changed, err
}

func entryID(t models.ContentType, externalID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", t, externalID, at.UnixNano())
}

// ---- blocked keywords ----

func (s *Service) ListBlockedKeywords(ctx context.Context) ([]string, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.BlockedKeywords, nil
}

// AddBlockedKeyword stores keyword lowercased. Empty input and keywords already
// present are no-ops.
func (s *Service) AddBlockedKeyword(ctx context.Context, keyword string) ([]string, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		cfg, err := s.Config(ctx)
		if err != nil {
			return nil, err
		}
		return cfg.BlockedKeywords, nil
	}

	ev := ChangeEvent{Action: ActionKeywordAdd, Subject: kw}
	cfg, _, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		if slices.Contains(c.BlockedKeywords, kw) {
			return false, nil
		}
		c.BlockedKeywords = append(c.BlockedKeywords, kw)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return cfg.BlockedKeywords, nil
}

// RemoveBlockedKeyword removes keyword ignoring case and reports whether anything
// was removed.
func (s *Service) RemoveBlockedKeyword(ctx context.Context, keyword string) (bool, []string, error) {
	kw := strings.ToLower(keyword)
	ev := ChangeEvent{Action: ActionKeywordRemove, Subject: kw}
	cfg, changed, err := s.update(ctx, ev, func(c *models.FilterConfiguration) (bool, error) {
		before := len(c.BlockedKeywords)
		c.BlockedKeywords = slices.DeleteFunc(c.BlockedKeywords, func(k string) bool {
			return strings.ToLower(k) == kw
		})
		return len(c.BlockedKeywords) != before, nil
	})
	if err != nil {
		return false, nil, err
	}
	return changed, cfg.BlockedKeywords, nil
}

// ---- internals ----

// update runs fn through the store's serialized read-modify-write and notifies
// listeners when something was persisted.
func (s *Service) update(ctx context.Context, ev ChangeEvent, fn store.MutateFunc) (*models.FilterConfiguration, bool, error) {
	var changed bool
	cfg, err := s.store.Update(ctx, func(c *models.FilterConfiguration) (bool, error) {
		ch, err := fn(c)
		changed = ch
		return ch, err
	})
	if err != nil {
		if store.IsPersistence(err) {
			s.metrics.ObserveStoreError("update")
		}
		return nil, false, err
	}
	if changed {
		s.notify(ctx, ev)
	}
	return cfg, changed, nil
}

func (s *Service) notify(ctx context.Context, ev ChangeEvent) {
	a := actor.FromContext(ctx)
	ev.Actor = a.Subject
	ev.IP = a.IP
	ev.At = s.now().UTC()

	s.metrics.ObserveChange(ev.Action)
	for _, l := range s.listeners {
		if err := l.OnChange(ctx, ev); err != nil {
			slog.Warn("change listener failed", "action", ev.Action, "error", err)
		}
	}
}

func dedupCategories(cats []models.CategoryID) []models.CategoryID {
	out := make([]models.CategoryID, 0, len(cats))
	for _, c := range cats {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

// normalizeWhitelist validates entries from a full replace, keeps the first entry
// per (externalID, type) and fills missing ids and timestamps.
func normalizeWhitelist(entries []models.WhitelistEntry, now time.Time) ([]models.WhitelistEntry, error) {
	out := make([]models.WhitelistEntry, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ExternalID) == "" {
			return nil, invalid(fmt.Sprintf("whitelist[%d].youtubeId", i), "youtubeId required")
		}
		if !models.ValidContentType(string(e.Type)) {
			return nil, invalid(fmt.Sprintf("whitelist[%d].type", i), "invalid type %q", e.Type)
		}
		if strings.TrimSpace(e.Title) == "" {
			return nil, invalid(fmt.Sprintf("whitelist[%d].title", i), "title required")
		}
		dup := slices.ContainsFunc(out, func(x models.WhitelistEntry) bool {
			return x.ExternalID == e.ExternalID && x.Type == e.Type
		})
		if dup {
			continue
		}
		if e.AddedAt.IsZero() {
			e.AddedAt = now.UTC()
		}
		if e.ID == "" {
			e.ID = entryID(e.Type, e.ExternalID, e.AddedAt)
		}
		out = append(out, e)
	}
	return out, nil
}
