package models

import "time"

// ContentType identifies what kind of item a descriptor or whitelist entry refers to.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentPlaylist ContentType = "playlist"
	ContentChannel  ContentType = "channel"
)

// ContentTypes lists every valid content type in display order.
var ContentTypes = []ContentType{ContentVideo, ContentPlaylist, ContentChannel}

func ValidContentType(s string) bool {
	switch ContentType(s) {
	case ContentVideo, ContentPlaylist, ContentChannel:
		return true
	}
	return false
}

// CategoryID is one of the closed set of content categories known to the lexicon.
type CategoryID string

const (
	CategoryEducation   CategoryID = "education"
	CategoryIslamic     CategoryID = "islamic"
	CategoryQuran       CategoryID = "quran"
	CategoryProgramming CategoryID = "programming"
	CategoryScience     CategoryID = "science"
	CategoryDocumentary CategoryID = "documentary"
	CategoryKids        CategoryID = "kids"
	CategoryLanguage    CategoryID = "language"
	CategoryHistory     CategoryID = "history"
	CategoryHealth      CategoryID = "health"
	CategoryMathematics CategoryID = "mathematics"
	CategoryBusiness    CategoryID = "business"
	CategoryCooking     CategoryID = "cooking"
	CategoryCrafts      CategoryID = "crafts"
	CategoryNature      CategoryID = "nature"
)

// WhitelistEntry is an explicit admin override for a single item or a whole channel.
type WhitelistEntry struct {
	ID         string      `json:"id"`
	Type       ContentType `json:"type"`
	ExternalID string      `json:"youtubeId"`
	Title      string      `json:"title"`
	AddedAt    time.Time   `json:"addedAt"`
	AddedBy    string      `json:"addedBy,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

// FilterConfiguration is the persisted, process-wide filter document.
type FilterConfiguration struct {
	Enabled           bool             `json:"enabled"`
	DefaultDeny       bool             `json:"defaultDeny"`
	AllowedCategories []CategoryID     `json:"allowedCategories"`
	Whitelist         []WhitelistEntry `json:"whitelist"`
	BlockedKeywords   []string         `json:"blockedKeywords"`
	MaxResults        int              `json:"maxResults"`
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (c *FilterConfiguration) Clone() *FilterConfiguration {
	out := *c
	out.AllowedCategories = append([]CategoryID(nil), c.AllowedCategories...)
	out.Whitelist = append([]WhitelistEntry(nil), c.Whitelist...)
	out.BlockedKeywords = append([]string(nil), c.BlockedKeywords...)
	if out.AllowedCategories == nil {
		out.AllowedCategories = []CategoryID{}
	}
	if out.Whitelist == nil {
		out.Whitelist = []WhitelistEntry{}
	}
	if out.BlockedKeywords == nil {
		out.BlockedKeywords = []string{}
	}
	return &out
}

// FindWhitelisted returns the index of the entry matching (externalID, type), or -1.
func (c *FilterConfiguration) FindWhitelisted(externalID string, t ContentType) int {
	for i, e := range c.Whitelist {
		if e.ExternalID == externalID && e.Type == t {
			return i
		}
	}
	return -1
}

// HasCategory reports whether id is in the allowed set.
func (c *FilterConfiguration) HasCategory(id CategoryID) bool {
	for _, a := range c.AllowedCategories {
		if a == id {
			return true
		}
	}
	return false
}

// ContentDescriptor is the normalized view of one item handed in by a fetching collaborator.
type ContentDescriptor struct {
	ExternalID  string      `json:"youtubeId"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	ChannelID   string      `json:"channelId,omitempty"`
}

// MatchedRule names the rule that produced a verdict.
type MatchedRule string

const (
	RuleWhitelist   MatchedRule = "whitelist"
	RuleCategory    MatchedRule = "category"
	RuleKeyword     MatchedRule = "keyword"
	RuleDefaultDeny MatchedRule = "default_deny"
)

type FilterVerdict struct {
	Allowed     bool        `json:"allowed"`
	Reason      string      `json:"reason,omitempty"`
	MatchedRule MatchedRule `json:"matchedRule,omitempty"`
}

// FilterStats is a read-side summary of a configuration.
type FilterStats struct {
	TotalWhitelisted     int                 `json:"totalWhitelisted"`
	WhitelistedByType    map[ContentType]int `json:"whitelistedByType"`
	AllowedCategories    []CategoryID        `json:"allowedCategories"`
	BlockedKeywordsCount int                 `json:"blockedKeywordsCount"`
	Enabled              bool                `json:"enabled"`
	DefaultDeny          bool                `json:"defaultDeny"`
}

// CategoryInfo is a lexicon category as presented to the admin surface.
type CategoryInfo struct {
	ID      CategoryID `json:"id"`
	Label   string     `json:"label"`
	Enabled bool       `json:"enabled"`
}
