package filter

import (
	"fmt"
	"strings"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

const (
	reasonDisabled         = "filtering disabled"
	reasonWhitelisted      = "whitelisted"
	reasonChannelWhitelist = "channel is whitelisted"
	reasonDefaultDeny      = "content not allowed by default"
)

// Evaluate decides whether d may be shown under cfg. Rules are checked in a fixed
// order and the first match wins: master switch, item whitelist, channel whitelist,
// blocked keywords, allowed categories, default policy.
//
// Matching is plain substring containment over lowercased text, so a short keyword
// can hit inside a longer word. Blocked keywords only look at title and description;
// category matching also looks at tags.
func Evaluate(d models.ContentDescriptor, cfg *models.FilterConfiguration) models.FilterVerdict {
	if !cfg.Enabled {
		return models.FilterVerdict{Allowed: true, Reason: reasonDisabled}
	}

	if cfg.FindWhitelisted(d.ExternalID, d.Type) >= 0 {
		return models.FilterVerdict{Allowed: true, Reason: reasonWhitelisted, MatchedRule: models.RuleWhitelist}
	}

	if d.ChannelID != "" && cfg.FindWhitelisted(d.ChannelID, models.ContentChannel) >= 0 {
		return models.FilterVerdict{Allowed: true, Reason: reasonChannelWhitelist, MatchedRule: models.RuleWhitelist}
	}

	if kw, ok := blockedKeyword(d, cfg.BlockedKeywords); ok {
		return models.FilterVerdict{
			Allowed:     false,
			Reason:      fmt.Sprintf("contains blocked keyword: %s", kw),
			MatchedRule: models.RuleKeyword,
		}
	}

	if cat, ok := matchCategory(d, cfg.AllowedCategories); ok {
		return models.FilterVerdict{
			Allowed:     true,
			Reason:      fmt.Sprintf("matches allowed category: %s", cat),
			MatchedRule: models.RuleCategory,
		}
	}

	if cfg.DefaultDeny {
		return models.FilterVerdict{Allowed: false, Reason: reasonDefaultDeny, MatchedRule: models.RuleDefaultDeny}
	}
	return models.FilterVerdict{Allowed: true}
}

// EvaluateBatch evaluates every descriptor against the same configuration snapshot.
func EvaluateBatch(ds []models.ContentDescriptor, cfg *models.FilterConfiguration) []models.FilterVerdict {
	out := make([]models.FilterVerdict, len(ds))
	for i, d := range ds {
		out[i] = Evaluate(d, cfg)
	}
	return out
}

// Visible returns the allowed descriptors in input order, capped at max. A max of
// zero or less means no cap.
func Visible(ds []models.ContentDescriptor, verdicts []models.FilterVerdict, max int) []models.ContentDescriptor {
	out := make([]models.ContentDescriptor, 0, len(ds))
	for i, d := range ds {
		if i >= len(verdicts) || !verdicts[i].Allowed {
			continue
		}
		if max > 0 && len(out) >= max {
			break
		}
		out = append(out, d)
	}
	return out
}

func keywordText(d models.ContentDescriptor) string {
	return strings.ToLower(d.Title + " " + d.Description)
}

func categoryText(d models.ContentDescriptor) string {
	return strings.ToLower(d.Title + " " + d.Description + " " + strings.Join(d.Tags, " "))
}

func blockedKeyword(d models.ContentDescriptor, keywords []string) (string, bool) {
	if len(keywords) == 0 {
		return "", false
	}
	text := keywordText(d)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

func matchCategory(d models.ContentDescriptor, allowed []models.CategoryID) (models.CategoryID, bool) {
	if len(allowed) == 0 {
		return "", false
	}
	text := categoryText(d)
	for _, cat := range allowed {
		for _, kw := range Keywords(cat) {
			if strings.Contains(text, kw) {
				return cat, true
			}
		}
	}
	return "", false
}
