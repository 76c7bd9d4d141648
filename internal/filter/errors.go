package filter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// MinKeywordLength is the shortest blocked keyword accepted at the API boundary.
const MinKeywordLength = 2

// ValidationError is returned for caller input that must be rejected before any
// state is touched.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateKeyword trims kw and enforces the minimum length.
func ValidateKeyword(kw string) (string, error) {
	kw = strings.TrimSpace(kw)
	if kw == "" {
		return "", invalid("keyword", "keyword required")
	}
	if utf8.RuneCountInString(kw) < MinKeywordLength {
		return "", invalid("keyword", "keyword must be at least %d characters", MinKeywordLength)
	}
	return kw, nil
}

func ParseContentType(s string) (models.ContentType, error) {
	if s == "" {
		return "", invalid("type", "type required")
	}
	if !models.ValidContentType(s) {
		return "", invalid("type", "invalid type %q: must be video, playlist or channel", s)
	}
	return models.ContentType(s), nil
}

func ParseCategory(s string) (models.CategoryID, error) {
	if s == "" {
		return "", invalid("category", "category required")
	}
	id := models.CategoryID(s)
	if !ValidCategory(id) {
		return "", invalid("category", "unknown category %q", s)
	}
	return id, nil
}

// ParseCategories validates every id. Any unknown id rejects the whole list.
func ParseCategories(ss []string) ([]models.CategoryID, error) {
	out := make([]models.CategoryID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// ValidateWhitelistInput checks the fields required to add a whitelist entry.
func ValidateWhitelistInput(externalID, contentType, title string) (models.ContentType, error) {
	if strings.TrimSpace(externalID) == "" {
		return "", invalid("youtubeId", "youtubeId required")
	}
	t, err := ParseContentType(contentType)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(title) == "" {
		return "", invalid("title", "title required")
	}
	return t, nil
}
