package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/tubefilter/internal/models"
)

func TestLexicon_EveryCategoryHasKeywordsAndLabel(t *testing.T) {
	cats := AllCategories()
	assert.Len(t, cats, 15)

	for _, id := range cats {
		assert.True(t, ValidCategory(id), id)
		assert.NotEmpty(t, Keywords(id), id)
		assert.NotEqual(t, string(id), Label(id), "category %s has no label", id)
	}
}

func TestLexicon_KeywordsAreLowercase(t *testing.T) {
	for _, id := range AllCategories() {
		for _, kw := range Keywords(id) {
			assert.Equal(t, strings.ToLower(kw), kw, "category %s", id)
		}
	}
}

func TestLexicon_Unknown(t *testing.T) {
	assert.False(t, ValidCategory("astrology"))
	assert.Nil(t, Keywords("astrology"))
	assert.Equal(t, "astrology", Label("astrology"))
}

func TestLexicon_AllCategoriesReturnsCopy(t *testing.T) {
	cats := AllCategories()
	cats[0] = "mutated"
	assert.Equal(t, models.CategoryEducation, AllCategories()[0])
}
