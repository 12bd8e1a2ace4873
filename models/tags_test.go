package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagsStringSlice(t *testing.T) {
	tags := NormalizeTags([]string{" Marvel ", "", "DC"})

	assert.Equal(t, pq.StringArray{"Marvel", "DC"}, tags)
}

func TestNormalizeTagsAnySlice(t *testing.T) {
	tags := NormalizeTags([]any{"vintage", 42, "coins"})

	assert.Equal(t, pq.StringArray{"vintage", "coins"}, tags)
}

func TestNormalizeTagsStringifiedJson(t *testing.T) {
	tags := NormalizeTags(`["Marvel", "DC"]`)

	assert.Equal(t, pq.StringArray{"Marvel", "DC"}, tags)
}

func TestNormalizeTagsPlainString(t *testing.T) {
	tags := NormalizeTags("vintage")

	assert.Equal(t, pq.StringArray{"vintage"}, tags)
}

func TestNormalizeTagsBlankAndNil(t *testing.T) {
	assert.Empty(t, NormalizeTags(""))
	assert.Empty(t, NormalizeTags("   "))
	assert.Empty(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags(42))
}

func TestNormalizeTagsNeverNil(t *testing.T) {
	assert.NotNil(t, NormalizeTags(nil))
	assert.NotNil(t, NormalizeTags([]string{}))
}

func TestHasTagCaseInsensitive(t *testing.T) {
	tags := pq.StringArray{"Marvel", "comic books"}

	assert.True(t, HasTag(tags, "marvel"))
	assert.True(t, HasTag(tags, "MARVEL"))
	assert.True(t, HasTag(tags, "Comic Books"))
}

func TestHasTagExactMatchOnly(t *testing.T) {
	tags := pq.StringArray{"marvel"}

	assert.False(t, HasTag(tags, "marv"))
	assert.False(t, HasTag(tags, "marvels"))
	assert.False(t, HasTag(nil, "marvel"))
}
