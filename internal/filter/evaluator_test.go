package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

func baseConfig() *models.FilterConfiguration {
	return &models.FilterConfiguration{
		Enabled:           true,
		DefaultDeny:       true,
		AllowedCategories: []models.CategoryID{models.CategoryProgramming},
		Whitelist:         []models.WhitelistEntry{},
		BlockedKeywords:   []string{},
		MaxResults:        50,
	}
}

func video(id, title string) models.ContentDescriptor {
	return models.ContentDescriptor{ExternalID: id, Type: models.ContentVideo, Title: title}
}

func TestEvaluate_DisabledAllowsEverything(t *testing.T) {
	cfg := baseConfig()
	cfg.Enabled = false
	cfg.BlockedKeywords = []string{"عنف"}
	cfg.AllowedCategories = nil

	for _, d := range []models.ContentDescriptor{
		video("a", "محتوى عنف"),
		video("b", "فيديو عشوائي"),
		{ExternalID: "c", Type: models.ContentChannel},
	} {
		v := Evaluate(d, cfg)
		assert.True(t, v.Allowed, d.ExternalID)
		assert.Equal(t, "filtering disabled", v.Reason)
		assert.Empty(t, v.MatchedRule)
	}
}

func TestEvaluate_WhitelistBeatsBlockedKeyword(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{"عنف"}
	cfg.Whitelist = []models.WhitelistEntry{{ID: "w1", Type: models.ContentVideo, ExternalID: "abc123", Title: "Some Title"}}

	v := Evaluate(video("abc123", "عنف صريح"), cfg)
	assert.Equal(t, models.FilterVerdict{Allowed: true, Reason: "whitelisted", MatchedRule: models.RuleWhitelist}, v)
}

func TestEvaluate_WhitelistMatchesTypeToo(t *testing.T) {
	cfg := baseConfig()
	cfg.Whitelist = []models.WhitelistEntry{{ID: "w1", Type: models.ContentPlaylist, ExternalID: "abc123"}}

	v := Evaluate(video("abc123", "nothing relevant"), cfg)
	assert.False(t, v.Allowed)
	assert.Equal(t, models.RuleDefaultDeny, v.MatchedRule)
}

func TestEvaluate_ChannelWhitelist(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{"عنف"}
	cfg.Whitelist = []models.WhitelistEntry{{ID: "w1", Type: models.ContentChannel, ExternalID: "UCgood"}}

	d := video("v1", "عنف")
	d.ChannelID = "UCgood"
	v := Evaluate(d, cfg)
	assert.True(t, v.Allowed)
	assert.Equal(t, "channel is whitelisted", v.Reason)
	assert.Equal(t, models.RuleWhitelist, v.MatchedRule)

	// a video entry with the channel's id does not whitelist the channel
	cfg.Whitelist[0].Type = models.ContentVideo
	v = Evaluate(d, cfg)
	assert.False(t, v.Allowed)
	assert.Equal(t, models.RuleKeyword, v.MatchedRule)
}

func TestEvaluate_KeywordBeatsCategory(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{"عنف"}

	v := Evaluate(video("x", "برمجة ومحتوى عنف"), cfg)
	assert.False(t, v.Allowed)
	assert.Equal(t, models.RuleKeyword, v.MatchedRule)
	assert.Equal(t, "contains blocked keyword: عنف", v.Reason)
}

func TestEvaluate_KeywordIgnoresTags(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{"gaming"}

	d := video("x", "python basics")
	d.Tags = []string{"gaming"}
	v := Evaluate(d, cfg)
	assert.True(t, v.Allowed)
	assert.Equal(t, models.RuleCategory, v.MatchedRule)
}

func TestEvaluate_CategoryMatchesTags(t *testing.T) {
	cfg := baseConfig()

	d := video("x", "episode 4")
	d.Tags = []string{"JavaScript"}
	v := Evaluate(d, cfg)
	assert.True(t, v.Allowed)
	assert.Equal(t, "matches allowed category: programming", v.Reason)
}

func TestEvaluate_MatchingIsCaseInsensitiveSubstring(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{"Prank"}

	v := Evaluate(video("x", "EPIC PRANKS compilation"), cfg)
	assert.False(t, v.Allowed)
	assert.Equal(t, "contains blocked keyword: Prank", v.Reason)

	// "app" is a programming keyword and hits inside "happy"
	v = Evaluate(video("y", "Happy birthday"), baseConfig())
	assert.True(t, v.Allowed)
	assert.Equal(t, models.RuleCategory, v.MatchedRule)
}

func TestEvaluate_CategoriesCheckedInStoredOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.AllowedCategories = []models.CategoryID{models.CategoryScience, models.CategoryProgramming}

	v := Evaluate(video("x", "python physics simulation"), cfg)
	assert.Equal(t, "matches allowed category: science", v.Reason)

	cfg.AllowedCategories = []models.CategoryID{models.CategoryProgramming, models.CategoryScience}
	v = Evaluate(video("x", "python physics simulation"), cfg)
	assert.Equal(t, "matches allowed category: programming", v.Reason)
}

func TestEvaluate_DefaultPolicy(t *testing.T) {
	cfg := baseConfig()
	d := video("x", "فيديو عشوائي عن الرياضة")

	v := Evaluate(d, cfg)
	assert.Equal(t, models.FilterVerdict{
		Allowed:     false,
		Reason:      "content not allowed by default",
		MatchedRule: models.RuleDefaultDeny,
	}, v)

	cfg.DefaultDeny = false
	v = Evaluate(d, cfg)
	assert.Equal(t, models.FilterVerdict{Allowed: true}, v)
}

func TestEvaluate_EmptyBlockedKeywordIgnored(t *testing.T) {
	cfg := baseConfig()
	cfg.BlockedKeywords = []string{""}

	v := Evaluate(video("x", "python"), cfg)
	assert.True(t, v.Allowed)
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		title    string
		allowed  bool
		rule     models.MatchedRule
	}{
		{"programming title", nil, "تعلم البرمجة بلغة Python", true, models.RuleCategory},
		{"unrelated title", nil, "فيديو عشوائي عن الرياضة", false, models.RuleDefaultDeny},
		{"blocked keyword wins", []string{"عنف"}, "برمجة ومحتوى عنف", false, models.RuleKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			if tt.keywords != nil {
				cfg.BlockedKeywords = tt.keywords
			}
			v := Evaluate(video("id", tt.title), cfg)
			assert.Equal(t, tt.allowed, v.Allowed)
			assert.Equal(t, tt.rule, v.MatchedRule)
		})
	}
}

func TestEvaluateBatch_AndVisible(t *testing.T) {
	cfg := baseConfig()
	ds := []models.ContentDescriptor{
		video("1", "python"),
		video("2", "random"),
		video("3", "react hooks"),
		video("4", "golang api"),
	}

	verdicts := EvaluateBatch(ds, cfg)
	assert.Len(t, verdicts, 4)
	assert.False(t, verdicts[1].Allowed)

	visible := Visible(ds, verdicts, 0)
	assert.Equal(t, []string{"1", "3", "4"}, ids(visible))

	visible = Visible(ds, verdicts, 2)
	assert.Equal(t, []string{"1", "3"}, ids(visible))
}

func ids(ds []models.ContentDescriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ExternalID)
	}
	return out
}
