package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

func TestDecode_NullListsBecomeEmpty(t *testing.T) {
	cfg, err := Decode([]byte(`{"whitelist": null, "blockedKeywords": null}`))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Whitelist)
	assert.NotNil(t, cfg.BlockedKeywords)
	assert.Empty(t, cfg.Whitelist)
}

func TestDecode_ExplicitZeroValuesOverrideDefaults(t *testing.T) {
	cfg, err := Decode([]byte(`{"defaultDeny": false, "allowedCategories": [], "maxResults": 0}`))
	require.NoError(t, err)
	assert.False(t, cfg.DefaultDeny)
	assert.Empty(t, cfg.AllowedCategories)
	assert.Equal(t, 0, cfg.MaxResults)
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"enabled": false} junk`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"enabled": false}{"enabled": true}`))
	assert.Error(t, err)

	cfg, err := Decode([]byte("{\"enabled\": false}\n  "))
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
}

func TestEncodeDecode_KeepsWhitelistFields(t *testing.T) {
	in := DefaultConfiguration()
	in.Whitelist = []models.WhitelistEntry{{
		ID:         "video_abc_1",
		Type:       models.ContentVideo,
		ExternalID: "abc",
		Title:      "درس",
		AddedBy:    "admin",
		Reason:     "curated",
	}}

	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"youtubeId": "abc"`)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Whitelist[0].ExternalID, out.Whitelist[0].ExternalID)
	assert.Equal(t, in.Whitelist[0].Reason, out.Whitelist[0].Reason)
}

func TestDefaultConfiguration_IsFreshCopy(t *testing.T) {
	a := DefaultConfiguration()
	a.AllowedCategories[0] = "mutated"
	assert.Equal(t, models.CategoryEducation, DefaultConfiguration().AllowedCategories[0])
}
