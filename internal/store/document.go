package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// DefaultConfiguration returns a fresh copy of the built-in configuration used when
// nothing has been persisted and to back-fill missing fields.
func DefaultConfiguration() *models.FilterConfiguration {
	return &models.FilterConfiguration{
		Enabled:     true,
		DefaultDeny: true,
		AllowedCategories: []models.CategoryID{
			models.CategoryEducation,
			models.CategoryIslamic,
			models.CategoryQuran,
			models.CategoryProgramming,
			models.CategoryScience,
		},
		Whitelist:       []models.WhitelistEntry{},
		BlockedKeywords: []string{},
		MaxResults:      50,
	}
}

// document mirrors FilterConfiguration with every field optional so absent keys can
// be told apart from zero values.
type document struct {
	Enabled           *bool                    `json:"enabled"`
	DefaultDeny       *bool                    `json:"defaultDeny"`
	AllowedCategories *[]models.CategoryID     `json:"allowedCategories"`
	Whitelist         *[]models.WhitelistEntry `json:"whitelist"`
	BlockedKeywords   *[]string                `json:"blockedKeywords"`
	MaxResults        *int                     `json:"maxResults"`
}

// Decode parses a persisted document. Keys present in data override the defaults
// one by one; unknown keys are rejected. Empty input yields the defaults.
func Decode(data []byte) (*models.FilterConfiguration, error) {
	cfg := DefaultConfiguration()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode filter config: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode filter config: trailing data after document")
	}

	if doc.Enabled != nil {
		cfg.Enabled = *doc.Enabled
	}
	if doc.DefaultDeny != nil {
		cfg.DefaultDeny = *doc.DefaultDeny
	}
	if doc.AllowedCategories != nil {
		cfg.AllowedCategories = *doc.AllowedCategories
	}
	if doc.Whitelist != nil {
		cfg.Whitelist = *doc.Whitelist
	}
	if doc.BlockedKeywords != nil {
		cfg.BlockedKeywords = *doc.BlockedKeywords
	}
	if doc.MaxResults != nil {
		cfg.MaxResults = *doc.MaxResults
	}
	return cfg.Clone(), nil
}

// Encode renders the full document.
func Encode(cfg *models.FilterConfiguration) ([]byte, error) {
	data, err := json.MarshalIndent(cfg.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode filter config: %w", err)
	}
	return data, nil
}
